package feed

import (
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/synfeed/pkg/datetime"
	"github.com/umputun/synfeed/pkg/decode"
	"github.com/umputun/synfeed/pkg/markup"
)

// datesFor makes the date parser for the language a feed declares
type datesFor func(declared string) *datetime.Parser

type extractor func(doc *markup.Document, dates datesFor) (*RawFeed, error)

var extractors = map[Dialect]extractor{
	DialectRSS:      extractGenericRSS,
	DialectRSS091:   extractRSS091,
	DialectRSS092:   extractRSS092,
	DialectRSS10:    extractRDF,
	DialectRSS20:    extractRSS20,
	DialectMediaRSS: extractMediaRSS,
	DialectAtom:     extractAtom,
}

// Parser turns feed documents into canonical feeds. It holds no state between
// calls and is safe for concurrent use.
type Parser struct {
	locales datetime.Locales
	lang    string
}

// Option customizes a Parser
type Option func(p *Parser)

// WithLocales replaces the locale table used to retry localized dates
func WithLocales(locales datetime.Locales) Option {
	return func(p *Parser) { p.locales = locales }
}

// WithLanguage forces the language used for localized date retries, ignoring what the feed declares
func WithLanguage(lang string) Option {
	return func(p *Parser) { p.lang = lang }
}

// NewParser creates a new feed parser
func NewParser(opts ...Option) *Parser {
	res := &Parser{locales: datetime.DefaultLocales}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// ParseBytes resolves the document encoding and parses the decoded text
func (p *Parser) ParseBytes(data []byte) (*Feed, error) {
	res, err := decode.Resolve(data)
	if err != nil {
		return nil, fmt.Errorf("resolve encoding: %w", err)
	}
	return p.ParseText(res.Text)
}

// ParseText parses an already decoded document into a canonical feed
func (p *Parser) ParseText(text string) (*Feed, error) {
	raw, err := p.ParseRaw(text)
	if err != nil {
		return nil, err
	}
	return ToFeed(raw), nil
}

// ParseRaw parses an already decoded document into its dialect specific form
func (p *Parser) ParseRaw(text string) (*RawFeed, error) {
	doc, err := markup.Parse(text)
	if err != nil {
		// html with void elements is rejected by the xml reader, report it as html anyway
		if markup.SniffRoot(text) == "html" {
			return nil, &NonFeedContentError{Links: Discover(text, nil)}
		}
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	dialect, err := Classify(doc)
	if err != nil {
		return nil, err
	}

	raw, err := extractors[dialect](doc, p.dates)
	if err != nil {
		return nil, err
	}
	lgr.Printf("[DEBUG] parsed %s feed %q with %d items", dialect, raw.Title, len(raw.Items))
	return raw, nil
}

// ClassifyBytes resolves the encoding and reports the dialect without extracting the feed
func (p *Parser) ClassifyBytes(data []byte) (Dialect, error) {
	res, err := decode.Resolve(data)
	if err != nil {
		return DialectUnknown, fmt.Errorf("resolve encoding: %w", err)
	}
	doc, err := markup.Parse(res.Text)
	if err != nil {
		if markup.SniffRoot(res.Text) == "html" {
			return DialectUnknown, &NonFeedContentError{Links: Discover(res.Text, nil)}
		}
		return DialectUnknown, fmt.Errorf("parse markup: %w", err)
	}
	return Classify(doc)
}

func (p *Parser) dates(declared string) *datetime.Parser {
	lang := declared
	if p.lang != "" {
		lang = p.lang
	}
	res := datetime.NewParserWithLocales(lang, p.locales)
	if res.Localized() {
		lgr.Printf("[DEBUG] localized date retry enabled for %q", lang)
	}
	return res
}

// ParseText parses decoded text with the default parser
func ParseText(text string) (*Feed, error) {
	return NewParser().ParseText(text)
}

// ParseBytes parses raw bytes with the default parser, resolving the declared encoding first
func ParseBytes(data []byte) (*Feed, error) {
	return NewParser().ParseBytes(data)
}
