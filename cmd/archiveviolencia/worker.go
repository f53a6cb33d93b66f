package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/orchestrator"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/pipeline"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/queue"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/store"
)

// workerCmd runs the Task Queue & Chaining consumer loop (C13) against
// NATS_URL, binding each stage to pipeline.Download/Extract/Enrich and
// enqueueing the next stage on success. run-all invokes the same stages
// in-process sequentially; worker is the queue-driven alternative for a
// deployment that wants competing consumers across several processes.
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the queue-driven stage orchestrator (C13) until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a, err := bootstrap(ctx, "worker")
		if err != nil {
			return err
		}
		defer a.Close()

		if a.cfg.NATSURL == "" {
			return fmt.Errorf("worker: NATS_URL is required")
		}

		q, err := queue.Connect(a.cfg.NATSURL, a.logger)
		if err != nil {
			return fmt.Errorf("worker: connect queue: %w", err)
		}
		defer q.Close()

		orch := orchestrator.New(q, a.sink, a.logger, "archiveviolencia")
		orch.RegisterStage(queue.StageDownload, stageHandler(a, q, queue.StageDownload, a.pipeline.Download))
		orch.RegisterStage(queue.StageExtract, stageHandler(a, q, queue.StageExtract, a.pipeline.Extract))
		orch.RegisterStage(queue.StageEnrich, enrichStageHandler(a))

		if err := orch.Start(ctx); err != nil {
			return fmt.Errorf("worker: start orchestrator: %w", err)
		}

		<-ctx.Done()
		a.logger.Info("worker shutting down")
		return nil
	},
}

// stageHandler adapts a (ctx, id, force) pipeline stage function to
// orchestrator.StageHandler, chaining into the next stage on success.
func stageHandler(a *app, q *queue.Queue, stage queue.Stage, fn func(context.Context, uuid.UUID, bool) error) orchestrator.StageHandler {
	return func(ctx context.Context, job queue.Job) error {
		id, err := uuid.Parse(job.RecordID)
		if err != nil {
			return &orchestrator.PermanentError{Reason: "invalid record id: " + err.Error()}
		}
		if err := fn(ctx, id, job.Force); err != nil {
			return err
		}
		return q.EnqueueNext(ctx, stage, job.RecordID, job.Force)
	}
}

// enrichStageHandler handles enrich jobs chained from the extract stage,
// whose record id is the source id: it enriches that source's extracted
// event, and acknowledges the job when the source produced none.
func enrichStageHandler(a *app) orchestrator.StageHandler {
	return func(ctx context.Context, job queue.Job) error {
		id, err := uuid.Parse(job.RecordID)
		if err != nil {
			return &orchestrator.PermanentError{Reason: "invalid record id: " + err.Error()}
		}
		ev, err := a.pipeline.Events.GetBySourceID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return a.pipeline.Enrich(ctx, ev.ID, pipeline.EnrichOptions{})
	}
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
