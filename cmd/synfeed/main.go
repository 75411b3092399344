package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/synfeed/pkg/config"
	"github.com/umputun/synfeed/pkg/feed"
	"github.com/umputun/synfeed/server"
)

// Opts with all CLI options
type Opts struct {
	Config      string `short:"c" long:"config" env:"CONFIG" description:"configuration file"`
	Format      string `short:"f" long:"format" env:"FORMAT" description:"output format: json, yaml, rss, gofeed, dialect or opml"`
	Lang        string `long:"lang" env:"FEED_LANG" description:"language for localized dates, overrides what feeds declare"`
	Sanitize    bool   `long:"sanitize" env:"SANITIZE" description:"sanitize item html"`
	Concurrency int    `short:"j" long:"concurrency" env:"CONCURRENCY" description:"sources parsed concurrently"`
	Watch       bool   `short:"w" long:"watch" description:"watch file sources and re-parse them on change"`
	Server      bool   `short:"s" long:"server" description:"run HTTP API server instead of parsing sources"`
	Listen      string `short:"l" long:"listen" env:"LISTEN" description:"listen address for server mode"`

	Args struct {
		Sources []string `positional-arg-name:"source" description:"feed file, http(s) url or - for stdin"`
	} `positional-args:"yes"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	color.NoColor = color.NoColor || opts.NoColor
	setupLog(opts.Debug)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, os.Stdin, os.Stdout)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgHiRed).Sprint("error:"), err)
		os.Exit(1)
	}
}

// run loads configuration, applies cli overrides and either serves the API or parses sources
func run(ctx context.Context, opts Opts, stdin io.Reader, stdout io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	parserOpts := []feed.Option{}
	if cfg.Parse.Language != "" {
		parserOpts = append(parserOpts, feed.WithLanguage(cfg.Parse.Language))
	}
	parser := feed.NewParser(parserOpts...)
	fetcher := feed.NewHTTPFetcher(feed.FetcherParams{
		Timeout:     cfg.Fetch.Timeout,
		UserAgent:   cfg.Fetch.UserAgent,
		Retries:     cfg.Fetch.Retries,
		RetryDelay:  cfg.Fetch.RetryDelay,
		MaxBodySize: cfg.Fetch.MaxBodySize,
		Parser:      parser,
	})

	if opts.Server {
		log.Printf("[INFO] starting synfeed server version %s", revision)
		srv := server.New(cfg, parser, fetcher, revision, opts.Debug)
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		log.Print("[INFO] shutdown complete")
		return nil
	}

	sources := opts.Args.Sources
	if len(sources) == 0 {
		return errors.New("no sources given, pass files, urls or - for stdin")
	}

	mgr := feed.NewManager(&feed.SourceLoader{Parser: parser, Fetcher: fetcher, Stdin: stdin}, cfg.Parse.Concurrency)
	out := newRenderer(cfg.Output, cfg.Parse.Sanitize, stdout)

	results := mgr.LoadAll(ctx, sources)
	if err := out.Render(results); err != nil {
		return fmt.Errorf("render output: %w", err)
	}

	if opts.Watch {
		return watch(ctx, mgr, out, sources)
	}
	return failedSources(results)
}

// loadConfig reads the config file if set and applies cli overrides on top of it
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}

	if opts.Format != "" {
		if !config.ValidFormat(opts.Format) {
			return nil, fmt.Errorf("unknown output format %q", opts.Format)
		}
		cfg.Output.Format = opts.Format
	}
	if opts.Lang != "" {
		cfg.Parse.Language = opts.Lang
	}
	if opts.Sanitize {
		cfg.Parse.Sanitize = true
	}
	if opts.Concurrency > 0 {
		cfg.Parse.Concurrency = opts.Concurrency
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	return cfg, nil
}

func failedSources(results []feed.Result) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return results[0].Err
	}
	return fmt.Errorf("%d of %d sources failed", failed, len(results))
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError, lgr.Out(os.Stderr)}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
