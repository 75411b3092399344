package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/synfeed/pkg/decode"
	"github.com/umputun/synfeed/pkg/feed"
)

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// parseHandler parses the posted document and returns the canonical feed.
// Query params: sanitize=true|false overrides the configured sanitizing, format=gofeed
// switches the response to gofeed's model.
func (s *Server) parseHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}

	f, err := s.parser.ParseBytes(data)
	if err != nil {
		log.Printf("[DEBUG] can't parse posted document: %v", err)
		renderError(w, r, err, errorStatus(err, http.StatusBadRequest))
		return
	}
	s.renderFeed(w, r, f)
}

// classifyHandler reports the dialect of the posted document
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}

	dialect, err := s.parser.ClassifyBytes(data)
	if err != nil {
		renderError(w, r, err, errorStatus(err, http.StatusBadRequest))
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]feed.Dialect{"dialect": dialect})
}

// fetchHandler downloads the feed given by url query param and returns it parsed
func (s *Server) fetchHandler(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		renderError(w, r, fmt.Errorf("url parameter is required"), http.StatusBadRequest)
		return
	}

	f, err := s.fetcher.Fetch(r.Context(), url)
	if err != nil {
		log.Printf("[WARN] failed to fetch %s: %v", url, err)
		renderError(w, r, err, errorStatus(err, http.StatusBadGateway))
		return
	}
	s.renderFeed(w, r, f)
}

func (s *Server) renderFeed(w http.ResponseWriter, r *http.Request, f *feed.Feed) {
	if s.sanitizeRequested(r) {
		f = feed.Sanitize(f)
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		renderJSON(w, r, http.StatusOK, f)
	case "gofeed":
		renderJSON(w, r, http.StatusOK, feed.ToGofeed(f))
	default:
		renderError(w, r, fmt.Errorf("unknown format %q", format), http.StatusBadRequest)
	}
}

func (s *Server) sanitizeRequested(r *http.Request) bool {
	if v := r.URL.Query().Get("sanitize"); v != "" {
		if res, err := strconv.ParseBool(v); err == nil {
			return res
		}
	}
	return s.config.GetParseConfig().Sanitize
}

// readBody reads the whole request body, it renders the error itself and returns false on failure
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		renderError(w, r, fmt.Errorf("can't read request body: %w", err), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	if len(data) == 0 {
		renderError(w, r, fmt.Errorf("empty request body"), http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

// errorStatus maps parsing errors to http status codes, anything unrecognized gets fallback
func errorStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, decode.ErrUnsupportedEncoding):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, feed.ErrRequiredElementMissing),
		errors.Is(err, feed.ErrUnsupportedFeedType),
		errors.Is(err, feed.ErrNonFeedContent):
		return http.StatusUnprocessableEntity
	default:
		return fallback
	}
}
