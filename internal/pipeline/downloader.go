package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// downloadTimeout bounds a single article fetch.
const downloadTimeout = 20 * time.Second

// maxBodyBytes caps how much of a response body is read, guarding against a
// misbehaving server streaming an unbounded response.
const maxBodyBytes = 5 << 20 // 5 MiB

const userAgent = "arquivo-da-violencia/1.0 (+ingestion bot)"

// Downloader fetches the raw HTML for a resolved article URL.
type Downloader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPDownloader is the default Downloader, backed by net/http.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader builds an HTTPDownloader with a bounded per-request
// timeout independent of ctx, so a single slow article cannot stall a
// worker indefinitely even when the caller's context has no deadline.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{client: &http.Client{Timeout: downloadTimeout}}
}

func (d *HTTPDownloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("downloader: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloader: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("downloader: %s returned status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("downloader: read body %s: %w", url, err)
	}
	return body, nil
}
