package cmd

import (
	"github.com/huangsam/weightplot/core"
	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/internal/outwriter"
	"github.com/spf13/cobra"
)

// statsCmd summarizes every series of a weight log.
var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Summarize weights and trend per series.",
	Long: `Read a weight log and print one summary row per series.

Each row shows the covered time range, record count, min/max/mean weight
and how the smoothed trend moved from the first to the last measurement.

Examples:
  # Table on the terminal
  weightplot stats weights.csv

  # Only years, as JSON
  weightplot stats weights.csv --only year --output json

  # Parquet for DuckDB or pandas
  weightplot stats weights.csv --output parquet --output-file weights.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot run stats", err)
		}
	},
}
