// Package http provides an HTTP-based implementation of bpydocs.Fetcher
// for downloading reference pages.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/bpydocs"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements bpydocs.Fetcher at compile time.
var _ bpydocs.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using plain HTTP requests.
// The Blender reference is a static Sphinx site, so no JavaScript
// rendering is needed.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets a custom HTTP client. The client's own timeout takes
// precedence over WithTimeout.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", bpydocs.Errorf(bpydocs.EINVALID, "invalid URL %q: %v", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", bpydocs.Errorf(bpydocs.EUNAVAILABLE, "request to %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", bpydocs.Errorf(bpydocs.ENOTFOUND, "page %s not found", url)
	case resp.StatusCode != http.StatusOK:
		return "", bpydocs.Errorf(bpydocs.EINTERNAL, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", bpydocs.Errorf(bpydocs.EUNAVAILABLE, "reading %s failed: %v", url, err)
	}

	return string(body), nil
}
