package urlresolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeDecoder struct {
	resolved string
	err      error
}

func (f *fakeDecoder) Decode(ctx context.Context, aggregatorURL string) (string, error) {
	return f.resolved, f.err
}

func TestResolveSuccess(t *testing.T) {
	r := New(&fakeDecoder{resolved: "https://pub/x"}, "agg", time.Millisecond, zap.NewNop())
	got := r.Resolve(context.Background(), "https://agg/x?id=1")
	assert.Equal(t, "https://pub/x", got)
}

func TestResolveNonAggregatorHostPassesThrough(t *testing.T) {
	r := New(&fakeDecoder{resolved: "https://pub/x"}, "agg", time.Millisecond, zap.NewNop())
	got := r.Resolve(context.Background(), "https://pub/already-resolved")
	assert.Equal(t, "https://pub/already-resolved", got)
}

func TestResolveFailureFallsBackToOriginal(t *testing.T) {
	r := New(&fakeDecoder{err: errors.New("boom")}, "agg", time.Millisecond, zap.NewNop())
	got := r.Resolve(context.Background(), "https://agg/x")
	assert.Equal(t, "https://agg/x", got)
}

func TestResolveInvalidURLPassesThrough(t *testing.T) {
	r := New(&fakeDecoder{resolved: "https://pub/x"}, "agg", time.Millisecond, zap.NewNop())
	got := r.Resolve(context.Background(), "://not a url")
	assert.Equal(t, "://not a url", got)
}
