package server

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/umputun/synfeed/pkg/feed"
)

// rssHandler fetches the feed given by url query param and serves it re-rendered as rss 2.0.
// Any dialect works as the source, the self link points back to this endpoint.
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("url")
	if src == "" {
		renderError(w, r, fmt.Errorf("url parameter is required"), http.StatusBadRequest)
		return
	}

	f, err := s.fetcher.Fetch(r.Context(), src)
	if err != nil {
		log.Printf("[WARN] failed to fetch %s for rss: %v", src, err)
		renderError(w, r, err, errorStatus(err, http.StatusBadGateway))
		return
	}
	if s.sanitizeRequested(r) {
		f = feed.Sanitize(f)
	}

	baseURL := strings.TrimSuffix(s.config.GetServerConfig().BaseURL, "/")
	selfURL := ""
	if baseURL != "" {
		selfURL = baseURL + "/api/v1/rss?url=" + url.QueryEscape(src)
	}

	rss, err := feed.NewGenerator(selfURL).GenerateRSS(f)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
