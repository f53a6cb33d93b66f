package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSweepRunsAllIDsAndCountsFailures(t *testing.T) {
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		id, _ := uuid.NewV7()
		ids[i] = id
	}

	var calls int32
	result := sweep(context.Background(), ids, 2, nil, "download", func(ctx context.Context, id uuid.UUID) error {
		n := atomic.AddInt32(&calls, 1)
		if n%2 == 0 {
			return errors.New("boom")
		}
		return nil
	})

	assert.Equal(t, 5, result.Attempted)
	assert.Equal(t, int(calls), result.Succeeded+result.Failed)
}

func TestSweepEmptyIDsNoOp(t *testing.T) {
	result := sweep(context.Background(), nil, 4, nil, "extract", func(ctx context.Context, id uuid.UUID) error {
		t.Fatal("fn should not be called for empty id list")
		return nil
	})
	assert.Equal(t, 0, result.Attempted)
}
