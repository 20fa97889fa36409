// Package scraper fetches facility websites and extracts structured
// profiles: contact details, services, and a website-quality checklist.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/scrapex/outreach-engine/internal/model"
	"github.com/scrapex/outreach-engine/internal/resilience"
)

// maxBodyBytes caps how much of a page is read before parsing.
const maxBodyBytes = 2 << 20

// Scraper turns a facility URL into a raw extraction.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*model.RawExtraction, error)
}

// ScrapeError reports a failed scrape together with the URL that failed.
// A failed scrape never yields a partial extraction.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scraper: %s: %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// HTTPScraper fetches pages over HTTP and parses them with goquery.
type HTTPScraper struct {
	client    *http.Client
	userAgent string
	retry     resilience.RetryConfig
}

// Option configures an HTTPScraper.
type Option func(*HTTPScraper)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPScraper) {
		s.client = c
	}
}

// WithUserAgent overrides the User-Agent header sent with each fetch.
func WithUserAgent(ua string) Option {
	return func(s *HTTPScraper) {
		s.userAgent = ua
	}
}

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPScraper) {
		s.client.Timeout = d
	}
}

// WithRetryConfig overrides the default retry behavior for transient
// fetch failures.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(s *HTTPScraper) {
		s.retry = cfg
	}
}

// NewHTTPScraper creates a scraper with sensible defaults.
func NewHTTPScraper(opts ...Option) *HTTPScraper {
	s := &HTTPScraper{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		retry:     resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape fetches the page and extracts the facility profile. Transient
// HTTP failures are retried; any final failure is wrapped in a
// ScrapeError carrying the URL.
func (s *HTTPScraper) Scrape(ctx context.Context, url string) (*model.RawExtraction, error) {
	retry := s.retry
	retry.OnRetry = resilience.RetryLogger("scraper", "fetch")

	raw, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*model.RawExtraction, error) {
		return s.fetch(ctx, url)
	})
	if err != nil {
		return nil, &ScrapeError{URL: url, Err: err}
	}
	return raw, nil
}

func (s *HTTPScraper) fetch(ctx context.Context, url string) (*model.RawExtraction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		err := eris.Errorf("status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}

	// The final URL after redirects decides the transport-security check.
	scheme := ""
	if resp.Request != nil && resp.Request.URL != nil {
		scheme = resp.Request.URL.Scheme
	}

	return extract(doc, url, scheme), nil
}
