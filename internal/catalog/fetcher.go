package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ZebulonRouseFrantzich/evm/internal/log"
)

// DefaultUserAgent is the User-Agent header sent with catalog requests.
const DefaultUserAgent = "evm/1.0"

// HTTPClient is the minimal HTTP client the fetcher needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c HTTPClient) Option {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(f *HTTPFetcher) {
		f.logger = log.OrNop(l)
	}
}

// HTTPFetcher fetches the catalog over HTTP. No retries are attempted: a
// failed request is returned to the caller immediately.
type HTTPFetcher struct {
	latestURL  string
	archiveURL string
	client     HTTPClient
	userAgent  string
	logger     log.Logger
}

// NewHTTPFetcher creates a fetcher for the given latest-feed and archive-page URLs.
func NewHTTPFetcher(latestURL, archiveURL string, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		latestURL:  latestURL,
		archiveURL: archiveURL,
		client:     http.DefaultClient,
		userAgent:  DefaultUserAgent,
		logger:     log.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchLatest retrieves and decodes the JSON feed of current releases.
func (f *HTTPFetcher) FetchLatest(ctx context.Context) ([]Entry, error) {
	body, err := f.get(ctx, f.latestURL)
	if err != nil {
		return nil, err
	}

	entries, err := ParseLatest(body)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("fetched latest catalog", "url", f.latestURL, "entries", len(entries))
	return entries, nil
}

// FetchArchive retrieves the HTML download page and scrapes archived releases.
func (f *HTTPFetcher) FetchArchive(ctx context.Context) ([]Entry, error) {
	body, err := f.get(ctx, f.archiveURL)
	if err != nil {
		return nil, err
	}

	entries, err := ParseArchive(body)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("fetched archive catalog", "url", f.archiveURL, "entries", len(entries))
	return entries, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrCatalogUnavailable, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %q: %v", ErrCatalogUnavailable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrCatalogUnavailable, err)
	}
	return body, nil
}

// ParseLatest decodes the JSON feed format.
func ParseLatest(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode latest feed: %v", ErrCatalogParse, err)
	}
	return entries, nil
}
