package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/synfeed/pkg/config"
	"github.com/umputun/synfeed/pkg/feed"
	"github.com/umputun/synfeed/server/mocks"
)

func testConfig(listen string) *mocks.ConfigProviderMock {
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() config.ServerConfig {
			return config.ServerConfig{Listen: listen, Timeout: 30 * time.Second, MaxBodySize: 1024 * 1024,
				BaseURL: "http://localhost:8080"}
		},
		GetParseConfigFunc: func() config.ParseConfig { return config.ParseConfig{} },
	}
}

func TestServer_New(t *testing.T) {
	srv := New(testConfig(":8080"), &mocks.ParserMock{}, &mocks.FetcherMock{}, "1.0.0", false)
	assert.NotNil(t, srv)
	assert.Equal(t, "1.0.0", srv.version)
	assert.False(t, srv.debug)
	assert.NotNil(t, srv.Handler())
}

func TestServer_Run(t *testing.T) {
	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	err = listener.Close()
	require.NoError(t, err)

	srv := New(testConfig(fmt.Sprintf("127.0.0.1:%d", port)), &mocks.ParserMock{}, &mocks.FetcherMock{}, "1.0.0", true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	// wait for server to start
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "synfeed", resp.Header.Get("App-Name"))

	// shutdown server
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server didn't stop")
	}
}

func TestServer_Routes(t *testing.T) {
	parser := &mocks.ParserMock{
		ParseBytesFunc: func(data []byte) (*feed.Feed, error) {
			return &feed.Feed{Dialect: feed.DialectAtom, Title: string(data)}, nil
		},
		ClassifyBytesFunc: func([]byte) (feed.Dialect, error) { return feed.DialectRSS10, nil },
	}
	fetcher := &mocks.FetcherMock{
		FetchFunc: func(_ context.Context, url string) (*feed.Feed, error) {
			return &feed.Feed{Dialect: feed.DialectRSS20, Title: "remote", Link: url}, nil
		},
	}
	ts := httptest.NewServer(New(testConfig(":0"), parser, fetcher, "1.0.0", false).Handler())
	defer ts.Close()

	tests := []struct {
		name, method, path, body string
		code                     int
		contains                 string
	}{
		{"status", "GET", "/api/v1/status", "", http.StatusOK, `"status":"ok"`},
		{"parse", "POST", "/api/v1/parse", "doc", http.StatusOK, `"title":"doc"`},
		{"classify", "POST", "/api/v1/classify", "doc", http.StatusOK, `{"dialect":"Rss_1_0"}`},
		{"fetch", "GET", "/api/v1/fetch?url=http://example.com/rss", "", http.StatusOK, `"link":"http://example.com/rss"`},
		{"rss", "GET", "/api/v1/rss?url=http://example.com/rss", "", http.StatusOK, `<title>remote</title>`},
		{"wrong method", "GET", "/api/v1/parse", "", http.StatusMethodNotAllowed, `{"error":"method GET not allowed"}`},
		{"wrong method on get route", "POST", "/api/v1/fetch", "x", http.StatusMethodNotAllowed, `not allowed`},
		{"unknown", "GET", "/api/v1/nope", "", http.StatusNotFound, `{"error":"not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.contains)
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	ts := httptest.NewServer(New(testConfig(":0"), &mocks.ParserMock{}, &mocks.FetcherMock{}, "1.0.0", false).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/classify")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "POST", resp.Header.Get("Allow"))
	assert.Equal(t, "synfeed", resp.Header.Get("App-Name"), "middleware applies to the catch-all")

	resp2, err := http.Post(ts.URL+"/api/v1/status", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp2.StatusCode)
	assert.Equal(t, "GET", resp2.Header.Get("Allow"))

	// ping is answered by middleware before routing
	resp3, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
}

func TestServer_BodySizeLimit(t *testing.T) {
	cfg := &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() config.ServerConfig {
			return config.ServerConfig{Listen: ":0", Timeout: time.Second, MaxBodySize: 16}
		},
		GetParseConfigFunc: func() config.ParseConfig { return config.ParseConfig{} },
	}
	parser := &mocks.ParserMock{ParseBytesFunc: func([]byte) (*feed.Feed, error) { return &feed.Feed{}, nil }}
	ts := httptest.NewServer(New(cfg, parser, &mocks.FetcherMock{}, "1.0.0", false).Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/parse", "application/xml", strings.NewReader(strings.Repeat("x", 100)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Empty(t, parser.ParseBytesCalls())
}

func TestServer_statusHandler(t *testing.T) {
	srv := New(testConfig(":8080"), &mocks.ParserMock{}, &mocks.FetcherMock{}, "1.2.3", false)

	req := httptest.NewRequest("GET", "/api/v1/status", http.NoBody)
	w := httptest.NewRecorder()
	srv.statusHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var status map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "1.2.3", status["version"])
	assert.NotEmpty(t, status["time"])
}

func TestRenderJSON(t *testing.T) {
	data := map[string]string{"message": "test", "status": "ok"}

	req := httptest.NewRequest("GET", "/test", http.NoBody)
	w := httptest.NewRecorder()
	renderJSON(w, req, http.StatusOK, data)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, data, result)
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{name: "plain", err: errors.New("boom"), code: http.StatusBadRequest, want: `{"error":"boom"}`},
		{name: "nil", err: nil, code: http.StatusInternalServerError, want: `{"error":"unknown error"}`},
		{name: "non-feed without links", err: &feed.NonFeedContentError{}, code: http.StatusUnprocessableEntity,
			want: `{"error":"html content detected, not a feed"}`},
		{name: "non-feed with links", code: http.StatusUnprocessableEntity,
			err: fmt.Errorf("wrapped: %w", &feed.NonFeedContentError{Links: []feed.FeedLink{
				{Title: "main", URL: "http://example.com/rss", Dialect: feed.DialectRSS}}}),
			want: `{"error":"wrapped: html content detected, not a feed, 1 feed links found",` +
				`"links":[{"title":"main","url":"http://example.com/rss","dialect":"Rss"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", http.NoBody)
			w := httptest.NewRecorder()
			renderError(w, req, tt.err, tt.code)
			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}
