package feed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"
)

//go:generate moq -out mocks/loader.go -pkg mocks -skip-ensure -fmt goimports . Loader

// Loader turns a source reference into a parsed feed
type Loader interface {
	Load(ctx context.Context, source string) (*Feed, error)
}

// Result is the outcome of one source
type Result struct {
	Source string
	Feed   *Feed
	Err    error
}

// Manager loads many sources concurrently
type Manager struct {
	loader      Loader
	concurrency int
}

// NewManager creates a new manager, concurrency below 1 means one source at a time
func NewManager(loader Loader, concurrency int) *Manager {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Manager{loader: loader, concurrency: concurrency}
}

// LoadAll loads every source and returns results in the order of sources.
// A failed source doesn't stop the others, its error is kept in the result.
func (m *Manager) LoadAll(ctx context.Context, sources []string) []Result {
	results := make([]Result, len(sources))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, src := range sources {
		g.Go(func() error {
			results[i] = Result{Source: src}
			f, err := m.loader.Load(gctx, src)
			if err != nil {
				lgr.Printf("[WARN] failed to load %s: %v", src, err)
				results[i].Err = err
				failed.Add(1)
				return nil
			}
			lgr.Printf("[DEBUG] loaded %s, %s with %d items", src, f.Dialect, len(f.Items))
			results[i].Feed = f
			return nil
		})
	}
	_ = g.Wait()

	lgr.Printf("[INFO] loaded %d/%d sources", len(sources)-int(failed.Load()), len(sources))
	return results
}

// SourceLoader reads "-" from stdin, http(s) urls with the fetcher and anything else as a file
type SourceLoader struct {
	Parser  *Parser
	Fetcher *HTTPFetcher
	Stdin   io.Reader
}

// Load implements Loader
func (l *SourceLoader) Load(ctx context.Context, source string) (*Feed, error) {
	switch {
	case source == "-":
		if l.Stdin == nil {
			return nil, fmt.Errorf("stdin is not available")
		}
		data, err := io.ReadAll(l.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return l.Parser.ParseBytes(data)
	case IsURL(source):
		if l.Fetcher == nil {
			return nil, fmt.Errorf("no fetcher for %s", source)
		}
		return l.Fetcher.Fetch(ctx, source)
	default:
		data, err := os.ReadFile(source) //nolint:gosec // user supplied input file
		if err != nil {
			return nil, fmt.Errorf("read file %s: %w", source, err)
		}
		return l.Parser.ParseBytes(data)
	}
}

// IsURL reports whether source is an http or https url
func IsURL(source string) bool {
	low := strings.ToLower(source)
	return strings.HasPrefix(low, "http://") || strings.HasPrefix(low, "https://")
}
