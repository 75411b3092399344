package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/synfeed/pkg/config"
	"github.com/umputun/synfeed/pkg/feed"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . Parser
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	parser  Parser
	fetcher Fetcher
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() config.ServerConfig
	GetParseConfig() config.ParseConfig
}

// Parser turns posted documents into feeds
type Parser interface {
	ParseBytes(data []byte) (*feed.Feed, error)
	ClassifyBytes(data []byte) (feed.Dialect, error)
}

// Fetcher downloads and parses remote feeds
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*feed.Feed, error)
}

// New initializes a new server instance
func New(cfg ConfigProvider, parser Parser, fetcher Fetcher, version string, debug bool) *Server {
	s := &Server{
		config:  cfg,
		parser:  parser,
		fetcher: fetcher,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	srvCfg := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", srvCfg.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              srvCfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: srvCfg.Timeout,
		ReadTimeout:       srvCfg.Timeout,
		WriteTimeout:      srvCfg.Timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("synfeed", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(s.config.GetServerConfig().MaxBodySize))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /parse", s.parseHandler)
		r.HandleFunc("POST /classify", s.classifyHandler)
		r.HandleFunc("GET /fetch", s.fetchHandler)
		r.HandleFunc("GET /rss", s.rssHandler)
	})
	s.router.NotFoundHandler(s.notFoundHandler)
}

// notFoundHandler serves the catch-all route. A path registered under other methods gets 405
// with an Allow header, because the catch-all would otherwise hide the mux's own method check.
func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	var allowed []string
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		if method == r.Method {
			continue
		}
		alt := &http.Request{Method: method, URL: r.URL, Host: r.Host, Header: http.Header{}}
		if _, pattern := s.router.Handler(alt); pattern != "" && pattern != "/" {
			allowed = append(allowed, method)
		}
	}
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		renderError(w, r, fmt.Errorf("method %s not allowed", r.Method), http.StatusMethodNotAllowed)
		return
	}
	renderError(w, r, fmt.Errorf("not found"), http.StatusNotFound)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON. Non-feed content errors carry the discovered links.
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	resp := errorResponse{Error: "unknown error"}
	if err != nil {
		resp.Error = err.Error()
	}
	var nfc *feed.NonFeedContentError
	if errors.As(err, &nfc) {
		resp.Links = nfc.Links
	}
	renderJSON(w, r, code, resp)
}

type errorResponse struct {
	Error string          `json:"error"`
	Links []feed.FeedLink `json:"links,omitempty"`
}
