package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrTooLarge is returned when the remote content exceeds the fetcher's size cap.
	ErrTooLarge = errors.New("content exceeds size limit")
	// ErrUnsupportedLocation is returned for references that are not http(s) URLs.
	ErrUnsupportedLocation = errors.New("unsupported location")
)

// Fetched is a downloaded file.
type Fetched struct {
	Content     []byte
	ContentType string
}

// HTTPFetcher downloads file contents over HTTP.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher creates a fetcher with a per-request timeout and a size cap.
// maxBytes <= 0 disables the cap.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads the bytes behind location.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (Fetched, error) {
	u, err := url.Parse(location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Fetched{}, fmt.Errorf("%w: %q", ErrUnsupportedLocation, location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Fetched{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Fetched{}, fmt.Errorf("failed to fetch %s: %w", u.Redacted(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Fetched{}, fmt.Errorf("bad status %d fetching %s", resp.StatusCode, u.Redacted())
	}
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return Fetched{}, ErrTooLarge
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return Fetched{}, fmt.Errorf("failed to read body: %w", err)
	}
	if f.maxBytes > 0 && int64(len(content)) > f.maxBytes {
		return Fetched{}, ErrTooLarge
	}

	return Fetched{
		Content:     content,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
