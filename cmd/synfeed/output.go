package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/umputun/synfeed/pkg/config"
	"github.com/umputun/synfeed/pkg/feed"
)

// renderer writes load results in the configured output format
type renderer struct {
	format   string
	indent   int
	sanitize bool

	mu  sync.Mutex
	out io.Writer
}

// sourceOutput is one entry of a multi-source json or yaml listing
type sourceOutput struct {
	Source string `json:"source"`
	Feed   any    `json:"feed,omitempty"`
	Error  string `json:"error,omitempty"`
}

func newRenderer(cfg config.OutputConfig, sanitize bool, out io.Writer) *renderer {
	return &renderer{format: cfg.Format, indent: cfg.Indent, sanitize: sanitize, out: out}
}

// Render writes results. A single successful source is written as is, several sources
// become a list with per-source errors.
func (r *renderer) Render(results []feed.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.format {
	case config.FormatJSON, config.FormatGofeed:
		return r.writeJSON(r.structured(results))
	case config.FormatYAML:
		return r.writeYAML(r.structured(results))
	case config.FormatRSS:
		return r.writeRSS(results)
	case config.FormatDialect:
		for _, res := range results {
			if res.Err != nil {
				continue
			}
			if _, err := fmt.Fprintf(r.out, "%s\t%s\n", res.Source, res.Feed.Dialect); err != nil {
				return err
			}
		}
		return nil
	case config.FormatOPML:
		return r.writeOPML(results)
	default:
		return fmt.Errorf("unknown output format %q", r.format)
	}
}

func (r *renderer) structured(results []feed.Result) any {
	if len(results) == 1 && results[0].Err == nil {
		return r.feedView(results[0].Feed)
	}
	res := make([]sourceOutput, 0, len(results))
	for _, rr := range results {
		if rr.Err != nil {
			res = append(res, sourceOutput{Source: rr.Source, Error: rr.Err.Error()})
			continue
		}
		res = append(res, sourceOutput{Source: rr.Source, Feed: r.feedView(rr.Feed)})
	}
	return res
}

func (r *renderer) feedView(f *feed.Feed) any {
	if r.sanitize {
		f = feed.Sanitize(f)
	}
	if r.format == config.FormatGofeed {
		return feed.ToGofeed(f)
	}
	return f
}

func (r *renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetEscapeHTML(false)
	if r.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", r.indent))
	}
	return enc.Encode(v)
}

// writeYAML goes through json first, so field names and dialect names match the json output
func (r *renderer) writeYAML(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}
	enc := yaml.NewEncoder(r.out)
	if r.indent > 0 {
		enc.SetIndent(r.indent)
	}
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func (r *renderer) writeRSS(results []feed.Result) error {
	gen := feed.NewGenerator("")
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		f := res.Feed
		if r.sanitize {
			f = feed.Sanitize(f)
		}
		rss, err := gen.GenerateRSS(f)
		if err != nil {
			return fmt.Errorf("generate rss for %s: %w", res.Source, err)
		}
		if _, err := fmt.Fprintln(r.out, rss); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) writeOPML(results []feed.Result) error {
	subs := make([]feed.Subscription, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		subs = append(subs, feed.Subscription{Title: res.Feed.Title, XMLURL: res.Source, HTMLURL: res.Feed.Link})
	}
	opml, err := feed.NewGenerator("").GenerateOPML("synfeed subscriptions", subs)
	if err != nil {
		return fmt.Errorf("generate opml: %w", err)
	}
	_, err = fmt.Fprintln(r.out, opml)
	return err
}
