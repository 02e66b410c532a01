package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// HTTPSource downloads descriptor files over HTTP(S), retrying transient
// failures with exponential backoff.
type HTTPSource struct {
	client    *retryablehttp.Client
	userAgent string
}

// HTTPOptions tunes an HTTPSource. Zero values select the defaults.
type HTTPOptions struct {
	RetryMax  int
	Timeout   time.Duration
	UserAgent string
}

// NewHTTPSource creates an HTTPSource.
func NewHTTPSource(opts HTTPOptions) *HTTPSource {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 30 * time.Second
	client.Logger = nil // callers log the outcome

	if opts.RetryMax > 0 {
		client.RetryMax = opts.RetryMax
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "pkgsite/1.0"
	}

	return &HTTPSource{client: client, userAgent: ua}
}

// OpenRaw issues a GET for location and returns the response body.
func (s *HTTPSource) OpenRaw(ctx context.Context, location string) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", location, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %s", location, resp.Status)
	}

	return resp.Body, nil
}

var _ Opener = (*HTTPSource)(nil)
