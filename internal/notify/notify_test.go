package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeFiler struct {
	called bool
	err    error
}

func (f *fakeFiler) FileIssue(ctx context.Context, stage, recordID string, jobErr error) error {
	f.called = true
	return f.err
}

func TestLoggingSinkJobFailedWithoutFiler(t *testing.T) {
	sink := NewLoggingSink(zap.NewNop(), nil)
	assert.NotPanics(t, func() {
		sink.JobFailed(context.Background(), "extract", "rec-1", errors.New("boom"))
	})
}

func TestLoggingSinkJobFailedFilesIssue(t *testing.T) {
	filer := &fakeFiler{}
	sink := NewLoggingSink(zap.NewNop(), filer)
	sink.JobFailed(context.Background(), "extract", "rec-1", errors.New("boom"))
	assert.True(t, filer.called)
}

func TestLoggingSinkJobFailedFilerErrorIsSwallowed(t *testing.T) {
	filer := &fakeFiler{err: errors.New("tracker unreachable")}
	sink := NewLoggingSink(zap.NewNop(), filer)
	assert.NotPanics(t, func() {
		sink.JobFailed(context.Background(), "extract", "rec-1", errors.New("boom"))
	})
}

func TestLoggingSinkPipelineSummary(t *testing.T) {
	sink := NewLoggingSink(zap.NewNop(), nil)
	assert.NotPanics(t, func() {
		sink.PipelineSummary(context.Background(), Summary{
			Fetched: 10, Downloaded: 9, Extracted: 8, Linked: 3, Created: 5, Skipped: 1, Failed: 0,
		})
	})
}
