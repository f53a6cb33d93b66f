package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/pipeline"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Run the Dedup Resolver and Enrich stage (C11/C12)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		noCreate, _ := cmd.Flags().GetBool("no-create")
		maxWorkers, _ := cmd.Flags().GetInt("max-workers")
		_ = maxWorkers // enrich runs sequentially regardless
		incidentIDRaw, _ := cmd.Flags().GetString("incident-id")

		a, err := bootstrap(ctx, "enrich")
		if err != nil {
			return err
		}
		defer a.Close()

		if incidentIDRaw != "" {
			incidentID, err := uuid.Parse(incidentIDRaw)
			if err != nil {
				return fmt.Errorf("enrich: invalid --incident-id: %w", err)
			}
			if err := a.pipeline.ReEnrichIncident(ctx, incidentID, dryRun); err != nil {
				return fmt.Errorf("enrich: re-enrich incident: %w", err)
			}
			fmt.Printf("re-enriched incident %s\n", incidentID)
			return nil
		}

		result, err := a.pipeline.SweepEnrich(ctx, defaultSweepLimit, pipeline.EnrichOptions{
			DryRun:   dryRun,
			NoCreate: noCreate,
		}, a.sink)
		if err != nil {
			return fmt.Errorf("enrich: %w", err)
		}
		fmt.Printf("enrich: attempted %d, succeeded %d, failed %d\n", result.Attempted, result.Succeeded, result.Failed)
		return nil
	},
}

func init() {
	enrichCmd.Flags().Bool("dry-run", false, "compute matches without writing links or new incidents")
	enrichCmd.Flags().Bool("no-create", false, "leave unmatched extractions unlinked instead of minting a new incident")
	enrichCmd.Flags().Int("max-workers", defaultWorkers, "accepted for CLI symmetry; enrich always runs sequentially")
	enrichCmd.Flags().String("incident-id", "", "re-enrich a single incident against its current linked extractions, instead of sweeping")
}
