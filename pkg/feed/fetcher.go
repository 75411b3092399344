package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
)

// DefaultMaxBodySize limits how much of a response is read
const DefaultMaxBodySize = 10 * 1024 * 1024

var errPermanent = errors.New("permanent fetch error")

// HTTPFetcher downloads feeds and parses them
type HTTPFetcher struct {
	client      *http.Client
	parser      *Parser
	userAgent   string
	retries     int
	retryDelay  time.Duration
	maxBodySize int64
}

// FetcherParams configures HTTPFetcher
type FetcherParams struct {
	Timeout     time.Duration
	UserAgent   string
	Retries     int
	RetryDelay  time.Duration
	MaxBodySize int64
	Parser      *Parser
}

// NewHTTPFetcher creates a new feed fetcher
func NewHTTPFetcher(params FetcherParams) *HTTPFetcher {
	res := &HTTPFetcher{
		client:      &http.Client{Timeout: params.Timeout},
		parser:      params.Parser,
		userAgent:   params.UserAgent,
		retries:     params.Retries,
		retryDelay:  params.RetryDelay,
		maxBodySize: params.MaxBodySize,
	}
	if res.parser == nil {
		res.parser = NewParser()
	}
	if res.userAgent == "" {
		res.userAgent = "synfeed"
	}
	if res.retries <= 0 {
		res.retries = 1
	}
	if res.retryDelay <= 0 {
		res.retryDelay = 50 * time.Millisecond
	}
	if res.maxBodySize <= 0 {
		res.maxBodySize = DefaultMaxBodySize
	}
	return res
}

// Fetch retrieves the feed at feedURL and parses it. Transport errors and 5xx responses are retried.
// An html page comes back as NonFeedContentError with links resolved against the final url.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) (*Feed, error) {
	body, finalURL, err := f.Download(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	res, err := f.parser.ParseBytes(body)
	if err != nil {
		var nfc *NonFeedContentError
		if errors.As(err, &nfc) {
			return nil, &NonFeedContentError{Links: resolveLinks(finalURL, nfc.Links)}
		}
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	return res, nil
}

// Download returns the response body of feedURL and the url it was served from after redirects
func (f *HTTPFetcher) Download(ctx context.Context, feedURL string) (body []byte, finalURL *url.URL, err error) {
	if _, err = url.ParseRequestURI(feedURL); err != nil {
		return nil, nil, fmt.Errorf("invalid url %q: %w", feedURL, err)
	}

	retrier := repeater.NewBackoff(f.retries, f.retryDelay, repeater.WithMaxDelay(2*time.Second))
	err = retrier.Do(ctx, func() error {
		var rerr error
		body, finalURL, rerr = f.get(ctx, feedURL)
		if rerr != nil {
			lgr.Printf("[DEBUG] fetch %s: %v", feedURL, rerr)
		}
		return rerr
	}, errPermanent)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	return body, finalURL, nil
}

func (f *HTTPFetcher) get(ctx context.Context, feedURL string) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create request: %w", errPermanent, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request: %w", err) // retry
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, nil, fmt.Errorf("%w: unexpected status %d", errPermanent, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, nil, fmt.Errorf("%w: body exceeds %d bytes", errPermanent, f.maxBodySize)
	}
	return body, resp.Request.URL, nil
}

func resolveLinks(base *url.URL, links []FeedLink) []FeedLink {
	res := make([]FeedLink, 0, len(links))
	for _, l := range links {
		l.URL = resolveURL(base, l.URL)
		res = append(res, l)
	}
	return res
}
