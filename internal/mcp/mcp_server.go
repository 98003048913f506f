// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the weightplot MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Weightplot Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: list_series ---
	s.AddTool(mcp.NewTool("list_series",
		mcp.WithDescription("List the chart series of a weight log (whole log, then each year followed by its months)."),
		mcp.WithString("file", mcp.Description("Path to the weight log."), mcp.Required()),
	), h.handleListSeries)

	// --- 2. Tool: get_weight_summary ---
	s.AddTool(mcp.NewTool("get_weight_summary",
		mcp.WithDescription("Summarize weights and trend per series of a weight log."),
		mcp.WithString("file", mcp.Description("Path to the weight log."), mcp.Required()),
		mcp.WithString("series", mcp.Description("Series title such as 'complete', '2020_full' or '2020_01'. Defaults to every series.")),
		mcp.WithString("only", mcp.Description("Restrict the summary to one series kind."), mcp.Enum("complete", "year", "month")),
		mcp.WithNumber("window", mcp.Description("Trend window size.")),
	), h.handleGetWeightSummary)

	// --- 3. Tool: get_chart_spec ---
	s.AddTool(mcp.NewTool("get_chart_spec",
		mcp.WithDescription("Return the full chart specification (dots, trend, markers, ticks) of one series."),
		mcp.WithString("file", mcp.Description("Path to the weight log."), mcp.Required()),
		mcp.WithString("series", mcp.Description("Series title such as 'complete', '2020_full' or '2020_01'."), mcp.Required()),
		mcp.WithNumber("window", mcp.Description("Trend window size.")),
	), h.handleGetChartSpec)

	return s
}

// StartMCPServer starts the weightplot MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
