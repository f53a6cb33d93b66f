package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/notify"
)

// progressEvery is how often a running sweep logs elapsed time and ETA
//.
const progressEvery = 10

// DefaultWorkers is the Download/Extract stage worker pool size when the
// caller does not override it.
const DefaultWorkers = 10

// SweepResult reports how many records a batch sweep touched, used both to
// log progress and to decide whether a subsequent stage has new work to
// chain into.
type SweepResult struct {
	Attempted int
	Succeeded int
	Failed    int
}

// sweep runs fn over ids with at most `workers` concurrent calls, one
// record per worker at a time, no cross-record transaction. A failure on
// one record never aborts the others; it is reported to sink and counted.
func sweep(ctx context.Context, ids []uuid.UUID, workers int, sink notify.Sink, stage string, fn func(context.Context, uuid.UUID) error) SweepResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	total := len(ids)
	result := SweepResult{Attempted: total}
	var succeeded, failed int64
	var completed int64
	start := time.Now()

	for _, id := range ids {
		id := id
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			if err := fn(gctx, id); err != nil {
				atomic.AddInt64(&failed, 1)
				if sink != nil {
					sink.JobFailed(gctx, stage, id.String(), err)
				}
			} else {
				atomic.AddInt64(&succeeded, 1)
			}
			reportProgress(stage, atomic.AddInt64(&completed, 1), int64(total), start)
			return nil
		})
	}
	_ = g.Wait()

	result.Succeeded = int(succeeded)
	result.Failed = int(failed)
	return result
}

// reportProgress logs elapsed time and an ETA every progressEvery
// completions, plus unconditionally on the final one.
func reportProgress(stage string, done, total int64, start time.Time) {
	if done%progressEvery != 0 && done != total {
		return
	}
	elapsed := time.Since(start)
	rate := float64(done) / elapsed.Seconds()
	var eta time.Duration
	if rate > 0 {
		eta = time.Duration(float64(total-done)/rate) * time.Second
	}
	fmt.Printf("%s progress: %d/%d, elapsed %s, eta %s\n", stage, done, total, elapsed.Round(time.Second), eta.Round(time.Second))
}

// SweepDownload runs Download over every source eligible for it, bounded to
// workers concurrent calls.
func (p *Pipeline) SweepDownload(ctx context.Context, force bool, limit, workers int, sink notify.Sink) (SweepResult, error) {
	ids, err := p.Sources.ListPendingDownload(ctx, force, limit)
	if err != nil {
		return SweepResult{}, fmt.Errorf("pipeline: sweep download list: %w", err)
	}
	p.Logger.Info("download sweep starting", zap.Int("candidates", len(ids)))
	return sweep(ctx, ids, workers, sink, "download", func(ctx context.Context, id uuid.UUID) error {
		return p.Download(ctx, id, force)
	}), nil
}

// SweepExtract runs Extract over every source eligible for it, bounded to
// workers concurrent calls.
func (p *Pipeline) SweepExtract(ctx context.Context, force bool, limit, workers int, sink notify.Sink) (SweepResult, error) {
	ids, err := p.Sources.ListForExtract(ctx, force, limit)
	if err != nil {
		return SweepResult{}, fmt.Errorf("pipeline: sweep extract list: %w", err)
	}
	p.Logger.Info("extract sweep starting", zap.Int("candidates", len(ids)))
	return sweep(ctx, ids, workers, sink, "extract", func(ctx context.Context, id uuid.UUID) error {
		return p.Extract(ctx, id, force)
	}), nil
}

// SweepEnrich runs Enrich over every unlinked ExtractedEvent, one at a
// time. Unlike Download/Extract, ordering within the sweep matters for
// dedup quality (earlier-created Incidents should exist before later events
// compete for them), so this sweep takes no worker count and runs
// sequentially — this is the one stage not parallelized.
func (p *Pipeline) SweepEnrich(ctx context.Context, limit int, opts EnrichOptions, sink notify.Sink) (SweepResult, error) {
	events, err := p.Events.ListUnlinked(ctx, limit)
	if err != nil {
		return SweepResult{}, fmt.Errorf("pipeline: sweep enrich list: %w", err)
	}
	p.Logger.Info("enrich sweep starting", zap.Int("candidates", len(events)))

	result := SweepResult{Attempted: len(events)}
	for _, ev := range events {
		if err := p.Enrich(ctx, ev.ID, opts); err != nil {
			result.Failed++
			if sink != nil {
				sink.JobFailed(ctx, "enrich", ev.ID.String(), err)
			}
			continue
		}
		result.Succeeded++
	}
	return result, nil
}
