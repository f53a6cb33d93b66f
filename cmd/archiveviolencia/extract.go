package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run the keyword filter and LLM Extractor stage (C1/C9/C10)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		force, _ := cmd.Flags().GetBool("force")
		limit, _ := cmd.Flags().GetInt("limit")
		workers, _ := cmd.Flags().GetInt("workers")

		a, err := bootstrap(ctx, "extract")
		if err != nil {
			return err
		}
		defer a.Close()

		if limit <= 0 {
			limit = defaultSweepLimit
		}

		result, err := a.pipeline.SweepExtract(ctx, force, limit, workers, a.sink)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		fmt.Printf("extract: attempted %d, succeeded %d, failed %d\n", result.Attempted, result.Succeeded, result.Failed)
		return nil
	},
}

func init() {
	extractCmd.Flags().Bool("force", false, "re-extract sources that already have a terminal status")
	extractCmd.Flags().Int("limit", 0, "maximum number of sources to process (0 = no explicit limit)")
	extractCmd.Flags().Int("workers", defaultWorkers, "maximum concurrent extractions")
}
