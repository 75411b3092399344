package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// output formats supported by the cli
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatRSS     = "rss"
	FormatGofeed  = "gofeed"
	FormatDialect = "dialect"
	FormatOPML    = "opml"
)

var formats = []string{FormatJSON, FormatYAML, FormatRSS, FormatGofeed, FormatDialect, FormatOPML}

// Config holds the application configuration
type Config struct {
	Server ServerConfig `yaml:"server" json:"server" jsonschema:"description=HTTP API configuration"`
	Fetch  FetchConfig  `yaml:"fetch" json:"fetch" jsonschema:"description=Feed download configuration"`
	Parse  ParseConfig  `yaml:"parse" json:"parse" jsonschema:"description=Feed parsing configuration"`
	Output OutputConfig `yaml:"output" json:"output" jsonschema:"description=CLI output configuration"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Listen      string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	MaxBodySize int64         `yaml:"max_body_size" json:"max_body_size" jsonschema:"default=10485760,minimum=1024,description=Maximum request body size in bytes"`
	BaseURL     string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL used for self links of generated feeds"`
}

// FetchConfig holds feed download settings
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Download timeout per attempt"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=synfeed/1.0,description=User agent for HTTP requests"`
	Retries     int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Download attempts on transport and 5xx failures"`
	RetryDelay  time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=500ms,description=Initial delay between attempts"`
	MaxBodySize int64         `yaml:"max_body_size" json:"max_body_size" jsonschema:"default=10485760,minimum=1024,description=Maximum downloaded feed size in bytes"`
}

// ParseConfig holds parsing settings
type ParseConfig struct {
	Language    string `yaml:"language" json:"language" jsonschema:"description=Language tag forced for localized date retries"`
	Sanitize    bool   `yaml:"sanitize" json:"sanitize" jsonschema:"default=false,description=Sanitize item html with the UGC policy"`
	Concurrency int    `yaml:"concurrency" json:"concurrency" jsonschema:"default=4,minimum=1,description=Sources parsed concurrently"`
}

// OutputConfig holds cli output settings
type OutputConfig struct {
	Format string `yaml:"format" json:"format" jsonschema:"default=json,enum=json,enum=yaml,enum=rss,enum=gofeed,enum=dialect,enum=opml,description=Output format"`
	Indent int    `yaml:"indent" json:"indent" jsonschema:"default=2,minimum=0,maximum=8,description=Indentation for json and yaml output"`
}

// Default returns configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema validation is supplementary, a mismatch is only logged
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.MaxBodySize == 0 {
		c.Server.MaxBodySize = 10 * 1024 * 1024
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "synfeed/1.0"
	}
	if c.Fetch.Retries == 0 {
		c.Fetch.Retries = 3
	}
	if c.Fetch.RetryDelay == 0 {
		c.Fetch.RetryDelay = 500 * time.Millisecond
	}
	if c.Fetch.MaxBodySize == 0 {
		c.Fetch.MaxBodySize = 10 * 1024 * 1024
	}

	if c.Parse.Concurrency == 0 {
		c.Parse.Concurrency = 4
	}

	if c.Output.Format == "" {
		c.Output.Format = FormatJSON
	}
	if c.Output.Indent == 0 {
		c.Output.Indent = 2
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Server.MaxBodySize < 1024 {
		return fmt.Errorf("server max_body_size must be at least 1024 bytes")
	}
	if cfg.Fetch.Timeout < 100*time.Millisecond {
		return fmt.Errorf("fetch timeout must be at least 100ms")
	}
	if cfg.Fetch.Retries < 1 {
		return fmt.Errorf("fetch retries must be at least 1")
	}
	if cfg.Fetch.MaxBodySize < 1024 {
		return fmt.Errorf("fetch max_body_size must be at least 1024 bytes")
	}
	if cfg.Parse.Concurrency < 1 {
		return fmt.Errorf("parse concurrency must be at least 1")
	}
	if !ValidFormat(cfg.Output.Format) {
		return fmt.Errorf("unknown output format %q", cfg.Output.Format)
	}
	if cfg.Output.Indent < 0 || cfg.Output.Indent > 8 {
		return fmt.Errorf("output indent must be between 0 and 8")
	}
	return nil
}

// ValidFormat reports whether format is a supported output format
func ValidFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() ServerConfig {
	return c.Server
}

// GetFetchConfig returns download configuration
func (c *Config) GetFetchConfig() FetchConfig {
	return c.Fetch
}

// GetParseConfig returns parsing configuration
func (c *Config) GetParseConfig() ParseConfig {
	return c.Parse
}
