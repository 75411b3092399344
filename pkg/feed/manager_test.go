package feed_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/synfeed/pkg/feed"
	"github.com/umputun/synfeed/pkg/feed/mocks"
)

func TestManager_LoadAll(t *testing.T) {
	t.Run("keeps source order", func(t *testing.T) {
		loader := &mocks.LoaderMock{
			LoadFunc: func(ctx context.Context, source string) (*feed.Feed, error) {
				if source == "a" {
					time.Sleep(20 * time.Millisecond) // finish last
				}
				return &feed.Feed{Title: source}, nil
			},
		}
		m := feed.NewManager(loader, 3)
		res := m.LoadAll(context.Background(), []string{"a", "b", "c"})
		require.Len(t, res, 3)
		for i, src := range []string{"a", "b", "c"} {
			assert.Equal(t, src, res[i].Source)
			require.NoError(t, res[i].Err)
			assert.Equal(t, src, res[i].Feed.Title)
		}
		assert.Len(t, loader.LoadCalls(), 3)
	})

	t.Run("failure doesn't stop others", func(t *testing.T) {
		loader := &mocks.LoaderMock{
			LoadFunc: func(ctx context.Context, source string) (*feed.Feed, error) {
				if source == "bad" {
					return nil, errors.New("boom")
				}
				return &feed.Feed{Title: source}, nil
			},
		}
		res := feed.NewManager(loader, 2).LoadAll(context.Background(), []string{"good", "bad", "other"})
		require.Len(t, res, 3)
		require.NoError(t, res[0].Err)
		require.EqualError(t, res[1].Err, "boom")
		assert.Nil(t, res[1].Feed)
		require.NoError(t, res[2].Err)
	})

	t.Run("respects concurrency limit", func(t *testing.T) {
		var active, peak atomic.Int32
		loader := &mocks.LoaderMock{
			LoadFunc: func(ctx context.Context, source string) (*feed.Feed, error) {
				n := active.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				active.Add(-1)
				return &feed.Feed{}, nil
			},
		}
		feed.NewManager(loader, 2).LoadAll(context.Background(), []string{"1", "2", "3", "4", "5", "6"})
		assert.LessOrEqual(t, peak.Load(), int32(2))
	})

	t.Run("zero concurrency means sequential", func(t *testing.T) {
		loader := &mocks.LoaderMock{
			LoadFunc: func(ctx context.Context, source string) (*feed.Feed, error) { return &feed.Feed{}, nil },
		}
		res := feed.NewManager(loader, 0).LoadAll(context.Background(), []string{"x"})
		require.Len(t, res, 1)
		require.NoError(t, res[0].Err)
	})
}

const managerRSS = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Local</title><link>http://example.com</link><description>d</description>
<item><title>one</title><link>http://example.com/1</link></item></channel></rss>`

func TestSourceLoader_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(managerRSS))
	}))
	defer srv.Close()

	parser := feed.NewParser()
	loader := &feed.SourceLoader{
		Parser:  parser,
		Fetcher: feed.NewHTTPFetcher(feed.FetcherParams{Timeout: time.Second, Parser: parser}),
		Stdin:   bytes.NewBufferString(managerRSS),
	}

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.xml")
		require.NoError(t, os.WriteFile(path, []byte(managerRSS), 0o600))
		f, err := loader.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "Local", f.Title)
		assert.Equal(t, feed.DialectRSS20, f.Dialect)
	})

	t.Run("url", func(t *testing.T) {
		f, err := loader.Load(context.Background(), srv.URL)
		require.NoError(t, err)
		require.Len(t, f.Items, 1)
		assert.Equal(t, "one", f.Items[0].Title)
	})

	t.Run("stdin", func(t *testing.T) {
		f, err := loader.Load(context.Background(), "-")
		require.NoError(t, err)
		assert.Equal(t, "Local", f.Title)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nope.xml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read file")
	})

	t.Run("no stdin", func(t *testing.T) {
		_, err := (&feed.SourceLoader{Parser: parser}).Load(context.Background(), "-")
		require.Error(t, err)
	})
}

func TestIsURL(t *testing.T) {
	assert.True(t, feed.IsURL("http://example.com/feed"))
	assert.True(t, feed.IsURL("HTTPS://example.com/feed"))
	assert.False(t, feed.IsURL("/tmp/feed.xml"))
	assert.False(t, feed.IsURL("-"))
}
