package calendar

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// FeedFetcher retrieves a raw calendar document from a URL.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) (string, error)
}

// Fetcher is the HTTP implementation of FeedFetcher. Every call performs
// a fresh fetch: feeds are small and caching would delay cancellation
// detection by a full sync cycle.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a Fetcher with the configured timeout and client tag.
func NewFetcher(cfg Config) *Fetcher {
	timeout := cfg.FetchTimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "rental-manager-sync/1.0"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		userAgent: userAgent,
	}
}

// Fetch performs a single GET against the feed URL and returns the body.
// It does not retry; retry policy belongs to the orchestrator's
// per-listing isolation. Any transport failure or non-2xx status maps to
// *FeedUnavailableError.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", &FeedUnavailableError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FeedUnavailableError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FeedUnavailableError{
			URL:        feedURL,
			StatusCode: resp.StatusCode,
			Err:        errors.New(resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FeedUnavailableError{URL: feedURL, StatusCode: resp.StatusCode, Err: err}
	}

	return string(body), nil
}
