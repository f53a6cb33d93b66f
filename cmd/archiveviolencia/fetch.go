package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/feed"
	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/queue"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run the Feed Fetcher and Ingest stages (C6/C7)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		startDate, _ := cmd.Flags().GetString("start-date")
		endDate, _ := cmd.Flags().GetString("end-date")
		query, _ := cmd.Flags().GetString("query")
		expand, _ := cmd.Flags().GetBool("expand")
		geo, _ := cmd.Flags().GetBool("geo")
		force, _ := cmd.Flags().GetBool("force")
		maxWorkers, _ := cmd.Flags().GetInt("max-workers")

		a, err := bootstrap(ctx, "fetch")
		if err != nil {
			return err
		}
		defer a.Close()

		start, err := parseDateFlag(startDate)
		if err != nil {
			return err
		}
		end, err := parseDateFlag(endDate)
		if err != nil {
			return err
		}

		inserted, err := a.pipeline.Ingest(ctx, a.fetcher, feed.Query{
			BaseQuery: query,
			StartDate: start,
			EndDate:   end,
			Expand:    expand,
			Geo:       geo,
		})
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		fmt.Printf("ingested %d new sources\n", len(inserted))

		if a.cfg.NATSURL != "" {
			return enqueueDownloads(ctx, a, inserted, force)
		}

		result, err := a.pipeline.SweepDownload(ctx, force, defaultSweepLimit, maxWorkers, a.sink)
		if err != nil {
			return fmt.Errorf("fetch: download sweep: %w", err)
		}
		fmt.Printf("download: attempted %d, succeeded %d, failed %d\n", result.Attempted, result.Succeeded, result.Failed)
		return nil
	},
}

// enqueueDownloads publishes a download job per newly ingested source
// instead of sweeping in-process, the producer side of the queue-driven
// mode `worker` consumes (C13 chaining starts here).
func enqueueDownloads(ctx context.Context, a *app, ids []uuid.UUID, force bool) error {
	q, err := queue.Connect(a.cfg.NATSURL, a.logger)
	if err != nil {
		return fmt.Errorf("fetch: connect queue: %w", err)
	}
	defer q.Close()

	for _, id := range ids {
		if err := q.Enqueue(ctx, queue.Job{Stage: queue.StageDownload, RecordID: id.String(), Force: force}); err != nil {
			return fmt.Errorf("fetch: enqueue download %s: %w", id, err)
		}
	}
	fmt.Printf("enqueued %d download jobs\n", len(ids))
	return nil
}

func init() {
	fetchCmd.Flags().String("start-date", "", "start of the ingest window (YYYY-MM-DD)")
	fetchCmd.Flags().String("end-date", "", "end of the ingest window (YYYY-MM-DD)")
	fetchCmd.Flags().String("query", defaultQuery, "base search query")
	fetchCmd.Flags().Bool("expand", false, "expand the query over the topic-term grid")
	fetchCmd.Flags().Bool("geo", false, "expand the query over the geo-term grid")
	fetchCmd.Flags().Bool("force", false, "re-download sources that already have a terminal status")
	fetchCmd.Flags().Int("max-workers", defaultWorkers, "maximum concurrent downloads")
}
