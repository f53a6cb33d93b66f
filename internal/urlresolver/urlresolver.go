// Package urlresolver unwraps aggregator redirect URLs to publisher URLs
// (C4). Resolution is best-effort: any failure returns the input URL
// unchanged, and calls to a single resolver are paced at least 1s apart.
package urlresolver

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Decoder is the opaque capability that turns an aggregator URL into a
// publisher URL. The transport itself is out of scope; callers
// supply a concrete implementation (e.g. an HTTP redirect follower).
type Decoder interface {
	Decode(ctx context.Context, aggregatorURL string) (string, error)
}

// Resolver paces calls to a Decoder at no more than one per interval and
// never lets a decoder failure escape — it logs and falls back to the
// original URL.
type Resolver struct {
	decoder    Decoder
	aggregator string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// New builds a Resolver. aggregatorHost is the hostname that identifies an
// aggregator URL.
// interval is the minimum pacing between calls to decoder; callers should
// pass at least 1s to stay polite to the aggregator.
func New(decoder Decoder, aggregatorHost string, interval time.Duration, logger *zap.Logger) *Resolver {
	if interval < time.Second {
		interval = time.Second
	}
	return &Resolver{
		decoder:    decoder,
		aggregator: aggregatorHost,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		logger:     logger,
	}
}

// Resolve unwraps rawURL when its host matches the configured aggregator
// host; otherwise returns it unchanged. Any decoder error, or a URL whose
// host doesn't match, results in the original URL being returned — this
// function never returns an error, since a resolver failure should never
// abort a pipeline run.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host != r.aggregator {
		return rawURL
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return rawURL
	}

	resolved, err := r.decoder.Decode(ctx, rawURL)
	if err != nil || resolved == "" {
		if r.logger != nil {
			r.logger.Warn("url resolution failed, using original url", zap.String("url", rawURL), zap.Error(err))
		}
		return rawURL
	}
	return resolved
}
