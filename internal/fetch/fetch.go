// Package fetch is the HTTP layer under every scraper: a plain client with
// retry and backoff, and a caching wrapper over the scrape cache database.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ryanrhee/snowboard-db-sub000/internal/store"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// maxBodyBytes caps response reads. Listing pages run 1-2 MB.
	maxBodyBytes = 4 << 20

	defaultMaxRetries = 3
	retryBaseDelay    = 2 * time.Second
)

// Result is one fetched page.
type Result struct {
	Body        []byte
	Status      int
	ContentType string
	FromCache   bool
}

// Fetcher fetches one URL. Implementations: Client (plain HTTP), Cached
// (cache-through), and the browser pool's page fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Status)
}

// retryable reports whether the fetch should be attempted again. Only rate
// limiting and transient unavailability qualify.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status == http.StatusServiceUnavailable
	}
	return false
}

// Client is the plain HTTP fetcher.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
}

// New builds a plain fetcher with the given request timeout.
func New(timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent:  defaultUserAgent,
		maxRetries: defaultMaxRetries,
		baseDelay:  retryBaseDelay,
		logger:     logger,
	}
}

// Fetch gets a URL, retrying 429 and 503 responses with exponential backoff.
func (c *Client) Fetch(ctx context.Context, url string) (*Result, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		res, err := c.fetchOnce(ctx, url)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !retryable(err) || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(1<<attempt) * c.baseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			c.logger.Debug("Retrying fetch",
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
		}
	}
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return &Result{Body: body, Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type")}, nil
}

// Cached serves fetches from the scrape cache, delegating misses to the
// wrapped fetcher and storing what comes back.
type Cached struct {
	inner  Fetcher
	cache  *store.CacheStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached wraps a fetcher with the scrape cache. Entries live for ttl.
func NewCached(inner Fetcher, cache *store.CacheStore, ttl time.Duration, logger *zap.Logger) *Cached {
	return &Cached{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

// Fetch returns the cached page when fresh, otherwise fetches and caches.
func (f *Cached) Fetch(ctx context.Context, url string) (*Result, error) {
	page, err := f.cache.GetPage(url)
	if err != nil {
		f.logger.Warn("Cache read failed", zap.String("url", url), zap.Error(err))
	}
	if page != nil {
		return &Result{Body: page.Body, Status: page.Status, ContentType: page.ContentType, FromCache: true}, nil
	}

	res, err := f.inner.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := f.cache.PutPage(url, res.Status, res.ContentType, res.Body, f.ttl); err != nil {
		f.logger.Warn("Cache write failed", zap.String("url", url), zap.Error(err))
	}
	return res, nil
}

// Delay waits d, or returns early when the context ends. Scrapers call it
// between page requests.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
