// Package notify defines the failure-notification and issue-tracker-filing
// interfaces the Task Queue (C13) calls on a per-record job failure, plus
// the pipeline summary notification reported once at the end of a run.
// Notification sinks themselves are out of scope; this package only
// specifies the thin interface and a
// logging-backed default so the rest of the pipeline has something real to
// call.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Sink is the notification surface the orchestrator calls.
type Sink interface {
	// JobFailed is called when a per-record stage job fails: it should emit
	// a structured notification and an issue-tracker filing, then let the
	// caller re-raise.
	JobFailed(ctx context.Context, stage, recordID string, err error)
	// PipelineSummary reports a run's aggregate counters once at the end of
	// run-all.
	PipelineSummary(ctx context.Context, summary Summary)
}

// IssueFiler opens a tracker issue for a job failure. Kept separate from
// Sink because a deployment may want chat alerts without issue filing, or
// vice versa.
type IssueFiler interface {
	FileIssue(ctx context.Context, stage, recordID string, err error) error
}

// Summary is the per-run rollup reported at the end of run-all.
type Summary struct {
	Fetched       int
	Downloaded    int
	Extracted     int
	Linked        int
	Created       int
	Skipped       int
	Failed        int
}

// LoggingSink is the default Sink: it logs every notification instead of
// posting to chat or an issue tracker. Concrete chat/issue-tracker
// transports are out of scope; callers wire a real Sink in front
// of this one, or replace it outright, without the orchestrator caring.
type LoggingSink struct {
	logger *zap.Logger
	filer  IssueFiler
}

// NewLoggingSink builds a LoggingSink. filer may be nil, in which case
// issue filing is skipped (logged only).
func NewLoggingSink(logger *zap.Logger, filer IssueFiler) *LoggingSink {
	return &LoggingSink{logger: logger, filer: filer}
}

func (s *LoggingSink) JobFailed(ctx context.Context, stage, recordID string, err error) {
	s.logger.Error("stage job failed",
		zap.String("stage", stage),
		zap.String("record_id", recordID),
		zap.Error(err),
	)
	if s.filer == nil {
		return
	}
	if fileErr := s.filer.FileIssue(ctx, stage, recordID, err); fileErr != nil {
		s.logger.Error("issue filing failed", zap.Error(fileErr))
	}
}

func (s *LoggingSink) PipelineSummary(ctx context.Context, summary Summary) {
	s.logger.Info("pipeline run summary",
		zap.Int("fetched", summary.Fetched),
		zap.Int("downloaded", summary.Downloaded),
		zap.Int("extracted", summary.Extracted),
		zap.Int("linked", summary.Linked),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
}
