package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/weightplot/core"
	"github.com/huangsam/weightplot/core/agg"
	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// seriesEntry is one row of list_series.
type seriesEntry struct {
	Title string           `json:"title"`
	Kind  schema.ChartKind `json:"kind"`
	Count int              `json:"count"`
}

// load reads the requested file. Diagnostics are discarded since stdout carries the protocol.
func (h *toolHandler) load(request mcp.CallToolRequest) (*agg.Aggregation, *mcp.CallToolResult) {
	file := request.GetString("file", "")
	if file == "" {
		return nil, mcp.NewToolResultError("file is required")
	}
	aggregation, _, err := core.LoadAggregation(file, nil)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to load weight log: %v", err))
	}
	return aggregation, nil
}

// config applies the per-call overrides to a copy of the base config.
func (h *toolHandler) config(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if cfg.Window < 1 {
		cfg.Window = contract.DefaultWindow
	}
	if w := request.GetInt("window", 0); w != 0 {
		if w < 1 {
			return nil, fmt.Errorf("window must be at least 1 (received %d)", w)
		}
		cfg.Window = w
	}
	if only := schema.ChartKind(request.GetString("only", "")); only != "" {
		if _, ok := schema.ValidChartKinds[only]; !ok {
			return nil, fmt.Errorf("unknown kind '%s'", only)
		}
		cfg.Only = only
	}
	return cfg, nil
}

func (h *toolHandler) handleListSeries(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	aggregation, errResult := h.load(request)
	if errResult != nil {
		return errResult, nil
	}

	all := aggregation.AllSeries()
	entries := make([]seriesEntry, 0, len(all))
	for _, s := range all {
		entries = append(entries, seriesEntry{Title: s.Title(), Kind: s.Key.Kind, Count: s.Len()})
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetWeightSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.config(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid summary parameters: %v", err)), nil
	}

	aggregation, errResult := h.load(request)
	if errResult != nil {
		return errResult, nil
	}

	var summaries []schema.SeriesSummary
	if title := request.GetString("series", ""); title != "" {
		series, ok := aggregation.Find(title)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("series %q not found", title)), nil
		}
		summary, err := core.BuildSummary(series, cfg.Window)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
		}
		summaries = []schema.SeriesSummary{summary}
	} else {
		summaries, err = core.Summarize(ctx, aggregation, cfg.Only, cfg.Window)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
		}
	}

	jsonData, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetChartSpec(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := request.GetString("series", "")
	if title == "" {
		return mcp.NewToolResultError("series is required"), nil
	}
	cfg, err := h.config(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid chart parameters: %v", err)), nil
	}

	aggregation, errResult := h.load(request)
	if errResult != nil {
		return errResult, nil
	}

	series, ok := aggregation.Find(title)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("series %q not found", title)), nil
	}
	spec, err := core.ProjectChart(series, cfg.Window)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("projection failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(spec, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
