package urlresolver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// redirectTimeout bounds a single decode call independent of ctx.
const redirectTimeout = 10 * time.Second

// HTTPRedirectDecoder implements Decoder by issuing a HEAD request and
// following redirects, returning wherever the aggregator URL ultimately
// lands. Most aggregator link-wrapping schemes are plain HTTP redirects, so
// this covers the common case without needing to parse any particular
// aggregator's URL format.
type HTTPRedirectDecoder struct {
	client *http.Client
}

// NewHTTPRedirectDecoder builds an HTTPRedirectDecoder. The underlying
// client follows redirects using net/http's default policy (up to 10 hops)
// and stops at the first response, never reading its body.
func NewHTTPRedirectDecoder() *HTTPRedirectDecoder {
	return &HTTPRedirectDecoder{client: &http.Client{Timeout: redirectTimeout}}
}

func (d *HTTPRedirectDecoder) Decode(ctx context.Context, aggregatorURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, aggregatorURL, nil)
	if err != nil {
		return "", fmt.Errorf("urlresolver: build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("urlresolver: decode %s: %w", aggregatorURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("urlresolver: %s returned status %d", aggregatorURL, resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}
