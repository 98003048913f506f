package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/weightplot/internal/contract"
	mcp_internal "github.com/huangsam/weightplot/internal/mcp"
	"github.com/huangsam/weightplot/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weightLog = `"2020-01-01 08:00:00",80.0,
"2020-01-03 08:00:00",79.5,
"2020-01-10 08:00:00",79.0,
"2020-02-02 08:00:00",78.5,
"2020-02-05 08:00:00",78.0,
`

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.csv")
	require.NoError(t, os.WriteFile(path, []byte(weightLog), 0o644))
	return path
}

func call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(&contract.Config{Window: 3})
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	content, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	input := writeLog(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"list_series missing file", "list_series", map[string]any{}, "file is required"},
		{"list_series unreadable file", "list_series", map[string]any{"file": filepath.Join(t.TempDir(), "nope.csv")}, "failed to load weight log"},
		{"get_chart_spec missing series", "get_chart_spec", map[string]any{"file": input}, "series is required"},
		{"get_chart_spec unknown series", "get_chart_spec", map[string]any{"file": input, "series": "2019_full"}, `series "2019_full" not found`},
		{"get_chart_spec bad window", "get_chart_spec", map[string]any{"file": input, "series": "complete", "window": -2.0}, "window must be at least 1"},
		{"get_weight_summary bad kind", "get_weight_summary", map[string]any{"file": input, "only": "week"}, "unknown kind"},
		{"get_weight_summary unknown series", "get_weight_summary", map[string]any{"file": input, "series": "2020_03"}, `series "2020_03" not found`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(t, res), tt.want)
		})
	}
}

func TestListSeries(t *testing.T) {
	res := call(t, "list_series", map[string]any{"file": writeLog(t)})
	require.False(t, res.IsError, text(t, res))

	var entries []struct {
		Title string `json:"title"`
		Kind  string `json:"kind"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &entries))

	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.Title
	}
	assert.Equal(t, []string{"complete", "2020_full", "2020_01", "2020_02"}, titles)
	assert.Equal(t, 5, entries[0].Count)
	assert.Equal(t, 3, entries[2].Count)
	assert.Equal(t, "month", entries[3].Kind)
}

func TestGetWeightSummary(t *testing.T) {
	input := writeLog(t)

	tests := []struct {
		name   string
		args   map[string]any
		series []string
	}{
		{"every series", map[string]any{"file": input}, []string{"complete", "2020_full", "2020_01", "2020_02"}},
		{"one series", map[string]any{"file": input, "series": "2020_02"}, []string{"2020_02"}},
		{"only months", map[string]any{"file": input, "only": "month"}, []string{"2020_01", "2020_02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, "get_weight_summary", tt.args)
			require.False(t, res.IsError, text(t, res))

			var summaries []schema.SeriesSummary
			require.NoError(t, json.Unmarshal([]byte(text(t, res)), &summaries))
			got := make([]string, len(summaries))
			for i, s := range summaries {
				got[i] = s.Series
			}
			assert.Equal(t, tt.series, got)
		})
	}

	t.Run("values", func(t *testing.T) {
		res := call(t, "get_weight_summary", map[string]any{"file": input, "series": "complete"})
		var summaries []schema.SeriesSummary
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, 5, summaries[0].Count)
		assert.InDelta(t, 78.0, summaries[0].Min, 1e-9)
		assert.InDelta(t, 80.0, summaries[0].Max, 1e-9)
		assert.Equal(t, schema.TrendDown, summaries[0].Direction)
	})
}

func TestGetChartSpec(t *testing.T) {
	res := call(t, "get_chart_spec", map[string]any{"file": writeLog(t), "series": "2020_01"})
	require.False(t, res.IsError, text(t, res))

	var spec schema.ChartSpec
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &spec))
	assert.Equal(t, "2020_01", spec.Title)
	assert.Equal(t, schema.MonthKind, spec.Kind)
	assert.Len(t, spec.Dots, 3)
	assert.Len(t, spec.Markers, 3)
	assert.Equal(t, 3, spec.Stats.Count)
}
