package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>File Feed</title><link>http://example.com</link><description>desc</description>
<item><title>first</title><link>http://example.com/1</link><description><![CDATA[<b>x</b><script>y</script>]]></description></item>
</channel></rss>`

const testAtom = `<feed xmlns="http://www.w3.org/2005/Atom"><id>urn:a</id><title>Atom Feed</title><updated>2017-01-10T19:58:13Z</updated>
<entry><id>urn:e</id><title>entry</title><updated>2017-01-10T19:58:13Z</updated></entry></feed>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestRun_MissingConfig(t *testing.T) {
	opts := Opts{Config: "non-existent-config.yml"}
	err := run(context.Background(), opts, nil, io.Discard)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgFile := writeFile(t, t.TempDir(), "config.yml", "invalid: yaml: content: [")
	err := run(context.Background(), Opts{Config: cfgFile}, nil, io.Discard)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidFormat(t *testing.T) {
	opts := Opts{Format: "csv"}
	err := run(context.Background(), opts, nil, io.Discard)
	require.EqualError(t, err, `failed to load config: unknown output format "csv"`)
}

func TestRun_NoSources(t *testing.T) {
	err := run(context.Background(), Opts{}, nil, io.Discard)
	require.EqualError(t, err, "no sources given, pass files, urls or - for stdin")
}

func TestRun_Formats(t *testing.T) {
	dir := t.TempDir()
	rssFile := writeFile(t, dir, "feed.xml", testRSS)

	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"json", func(t *testing.T, out string) {
			var f map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &f))
			assert.Equal(t, "Rss_2_0", f["dialect"])
			assert.Equal(t, "File Feed", f["title"])
		}},
		{"yaml", func(t *testing.T, out string) {
			var f map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(out), &f))
			assert.Equal(t, "Rss_2_0", f["dialect"])
			assert.Contains(t, out, "title: File Feed")
		}},
		{"gofeed", func(t *testing.T, out string) {
			assert.Contains(t, out, `"feedType": "rss"`)
			assert.Contains(t, out, `"feedVersion": "2.0"`)
		}},
		{"rss", func(t *testing.T, out string) {
			assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
			assert.Contains(t, out, "<title>File Feed</title>")
		}},
		{"dialect", func(t *testing.T, out string) {
			assert.Equal(t, rssFile+"\tRss_2_0\n", out)
		}},
		{"opml", func(t *testing.T, out string) {
			assert.Contains(t, out, `<opml version="2.0">`)
			assert.Contains(t, out, fmt.Sprintf(`xmlUrl=%q`, rssFile))
			assert.Contains(t, out, `htmlUrl="http://example.com"`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			opts := Opts{Format: tt.format}
			opts.Args.Sources = []string{rssFile}
			var out bytes.Buffer
			require.NoError(t, run(context.Background(), opts, nil, &out))
			tt.check(t, out.String())
		})
	}
}

func TestRun_Sanitize(t *testing.T) {
	rssFile := writeFile(t, t.TempDir(), "feed.xml", testRSS)

	opts := Opts{Sanitize: true}
	opts.Args.Sources = []string{rssFile}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, nil, &out))
	assert.Contains(t, out.String(), `"description": "<b>x</b>"`)
	assert.NotContains(t, out.String(), "<script")
	assert.NotContains(t, out.String(), ">y<")
}

func TestRun_MultipleSources(t *testing.T) {
	dir := t.TempDir()
	rssFile := writeFile(t, dir, "feed.xml", testRSS)
	atomFile := writeFile(t, dir, "atom.xml", testAtom)
	badFile := writeFile(t, dir, "bad.xml", "<opml/>")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(testAtom))
	}))
	defer ts.Close()

	opts := Opts{Format: "dialect", Concurrency: 2}
	opts.Args.Sources = []string{rssFile, ts.URL, atomFile, badFile}
	var out bytes.Buffer
	err := run(context.Background(), opts, nil, &out)
	require.EqualError(t, err, "1 of 4 sources failed")
	assert.Equal(t, rssFile+"\tRss_2_0\n"+ts.URL+"\tAtom\n"+atomFile+"\tAtom\n", out.String())

	// json lists every source with its error
	opts.Format = "json"
	out.Reset()
	require.Error(t, run(context.Background(), opts, nil, &out))
	var listing []sourceOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &listing))
	require.Len(t, listing, 4)
	assert.Equal(t, badFile, listing[3].Source)
	assert.Contains(t, listing[3].Error, "unsupported feed type")
	assert.Nil(t, listing[3].Feed)
	assert.Empty(t, listing[1].Error)
}

func TestRun_Stdin(t *testing.T) {
	opts := Opts{Format: "dialect"}
	opts.Args.Sources = []string{"-"}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, strings.NewReader(testAtom), &out))
	assert.Equal(t, "-\tAtom\n", out.String())
}

func TestRun_SingleFailure(t *testing.T) {
	opts := Opts{}
	opts.Args.Sources = []string{filepath.Join(t.TempDir(), "missing.xml")}
	err := run(context.Background(), opts, nil, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.xml")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yml", "output:\n  format: dialect\nparse:\n  concurrency: 1\n")
	rssFile := writeFile(t, dir, "feed.xml", testRSS)

	opts := Opts{Config: cfgFile}
	opts.Args.Sources = []string{rssFile}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, nil, &out))
	assert.Equal(t, rssFile+"\tRss_2_0\n", out.String())
}

func TestRun_Watch(t *testing.T) {
	dir := t.TempDir()
	feedFile := writeFile(t, dir, "feed.xml", testRSS)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := Opts{Format: "dialect", Watch: true}
	opts.Args.Sources = []string{feedFile}
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- run(ctx, opts, nil, out) }()

	require.Eventually(t, func() bool { return out.String() == feedFile+"\tRss_2_0\n" }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond) // let the watcher register

	require.NoError(t, os.WriteFile(feedFile, []byte(testAtom), 0o600))
	require.Eventually(t, func() bool { return strings.Contains(out.String(), feedFile+"\tAtom\n") },
		5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch didn't stop")
	}
}

func TestRun_WatchNothing(t *testing.T) {
	opts := Opts{Format: "dialect", Watch: true}
	opts.Args.Sources = []string{"-"}
	err := run(context.Background(), opts, strings.NewReader(testAtom), io.Discard)
	require.EqualError(t, err, "nothing to watch, only file sources can be watched")
}

func TestRun_ServerStartStop(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := Opts{Server: true, Listen: fmt.Sprintf("127.0.0.1:%d", port)}
	done := make(chan error, 1)
	go func() { done <- run(ctx, opts, nil, io.Discard) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Post(fmt.Sprintf("http://127.0.0.1:%d/api/v1/classify", port), "application/xml",
			strings.NewReader(testAtom))
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dialect":"Atom"}`, string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop")
	}
}

func TestSetupLog(t *testing.T) {
	setupLog(true)
	setupLog(false, "secret")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
