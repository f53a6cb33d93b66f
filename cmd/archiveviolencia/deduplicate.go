package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/pipeline"
)

// deduplicateCmd re-runs the Dedup Resolver (C11) over every unlinked
// extraction, the same matching the Enrich stage performs automatically
// after an extraction, exposed as its own entry point for a standalone
// consolidation pass over whatever has accumulated unlinked.
var deduplicateCmd = &cobra.Command{
	Use:   "deduplicate",
	Short: "Re-run incident consolidation over unlinked extractions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dryRun, _ := cmd.Flags().GetBool("dry-run")

		a, err := bootstrap(ctx, "deduplicate")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.pipeline.SweepEnrich(ctx, defaultSweepLimit, pipeline.EnrichOptions{
			DryRun: dryRun,
		}, a.sink)
		if err != nil {
			return fmt.Errorf("deduplicate: %w", err)
		}
		fmt.Printf("deduplicate: attempted %d, succeeded %d, failed %d\n", result.Attempted, result.Succeeded, result.Failed)
		return nil
	},
}

func init() {
	deduplicateCmd.Flags().Bool("dry-run", false, "compute matches without writing links or new incidents")
}
