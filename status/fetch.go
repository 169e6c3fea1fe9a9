package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnavailable is the only error kind the fetcher reports: the status
// source could not be reached or answered with something unusable.
var ErrUnavailable = errors.New("status source unavailable")

const maxBodyBytes = 32 << 20

// HTTPFetcher reads the status endpoint on demand.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher builds a fetcher. A nil client means http.DefaultClient,
// which enforces no timeout.
func NewHTTPFetcher(url string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{url: url, client: client}
}

// URL returns the endpoint being polled.
func (f *HTTPFetcher) URL() string {
	if f == nil {
		return ""
	}
	return f.url
}

// Fetch performs one GET and decodes the payload.
func (f *HTTPFetcher) Fetch(ctx context.Context) (Snapshot, error) {
	if f == nil {
		return Snapshot{}, fmt.Errorf("nil fetcher: %w", ErrUnavailable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build request: %v: %w", err, ErrUnavailable)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get %s: %v: %w", f.url, err, ErrUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return Snapshot{}, fmt.Errorf("unexpected status %d: %w", resp.StatusCode, ErrUnavailable)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read body: %v: %w", err, ErrUnavailable)
	}
	snap, err := Decode(body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%v: %w", err, ErrUnavailable)
	}
	return snap, nil
}
