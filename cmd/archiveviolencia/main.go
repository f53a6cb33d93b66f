// Command archiveviolencia runs the ingestion, extraction, enrichment and
// deduplication stages of the violent-death news archive, either one stage
// at a time or chained together in a single run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "archiveviolencia",
	Short: "Archive da Violência ingestion pipeline",
	Long: `archiveviolencia ingests publicly indexed news items about violent
deaths, extracts structured event records from their article bodies, and
consolidates duplicate reports of the same incident into a single canonical
record.`,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(deduplicateCmd)
	rootCmd.AddCommand(runAllCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
