package cmd

import (
	"github.com/huangsam/weightplot/core"
	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/internal/history"
	"github.com/huangsam/weightplot/internal/render"
	"github.com/spf13/cobra"
)

// plotCmd draws every chart of a weight log.
var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Draw charts for the whole log, each year and each month.",
	Long: `Read a weight log and draw one chart per series.

Each input line looks like:
  "2020-01-01 08:00:00",80.5,

Charts are written in this order:
- complete: every record of the log
- <year>_full: every record of one year
- <year>_<month>: every record of one month

Each chart shows the raw measurements, a line through them, a smoothed
trend and, when there are enough points, min/max/average markers.

Examples:
  # Draw every chart into ./charts
  weightplot plot weights.csv --output-dir charts

  # Only the monthly charts as SVG
  weightplot plot weights.csv --only month --format svg

  # Smooth over five measurements and record the run
  weightplot plot weights.csv --window 5 --history-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		renderer := render.NewChartRenderer(cfg.Format)
		if _, err := core.ExecutePlot(rootCtx, cfg, renderer, history.Manager); err != nil {
			contract.LogFatal("Cannot run plot", err)
		}
	},
}
