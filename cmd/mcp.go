package cmd

import (
	"fmt"

	"github.com/huangsam/weightplot/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpSetup reads the settings the tools fall back to. Input files come with each tool call.
func mcpSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	window := viper.GetInt("window")
	if window < 1 {
		return fmt.Errorf("window must be at least 1 (received %d)", window)
	}
	cfg.Window = window
	return nil
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the weightplot MCP server",
	Long: `Launch an MCP server on stdio so AI agents can inspect weight logs.

Tools:
- list_series: chart titles of a log in chart order
- get_weight_summary: summary rows for every or one series
- get_chart_spec: the full chart specification of one series`,
	PreRunE: mcpSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}
