package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/schema"
	"golang.org/x/sync/errgroup"
)

// Chart render statuses recorded in the run history.
const (
	statusOK     = "ok"
	statusFailed = "failed"
)

// ExecutePlot parses the configured input and writes one chart per series into cfg.OutputDir.
// A chart that fails is reported and counted; it never stops the other charts.
func ExecutePlot(ctx context.Context, cfg *contract.Config, renderer contract.Renderer, mgr contract.HistoryManager) (schema.PlotResult, error) {
	start := time.Now()
	result := schema.PlotResult{Input: cfg.InputPath}

	fmt.Printf("🧮 weightplot: Reading %s\n", cfg.InputPath)
	aggregation, parseStats, err := LoadAggregation(cfg.InputPath, contract.LogParseIssue)
	result.Parse = parseStats
	if err != nil {
		return result, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	// --- Begin run tracking (if configured) ---
	var runID int64
	store := runStoreOf(mgr)
	if store != nil {
		runID, err = store.BeginRun(start, cfg.InputPath, cfg.ConfigParams())
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		}
	}

	series := selectSeries(aggregation, cfg.Only)
	result.Charts = renderAll(ctx, cfg, renderer, series)

	for _, chart := range result.Charts {
		if chart.Err != nil {
			result.Failed++
			contract.LogWarn("error creating plot "+chart.Series, chart.Err)
		}
		if store != nil && runID > 0 {
			if err := store.RecordChart(runID, chartOutcome(chart)); err != nil {
				contract.LogWarn("Run tracking failed for "+chart.Series, err)
			}
		}
	}

	result.Duration = time.Since(start)

	// --- End run tracking ---
	if store != nil && runID > 0 {
		if err := store.EndRun(runID, time.Now(), aggregation.Len(), len(result.Charts), result.Failed); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	fmt.Printf("Generated %d charts (%d failed) in %v with %d workers.\n",
		len(result.Charts), result.Failed, result.Duration, cfg.Workers)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// renderAll produces every chart with at most cfg.Workers jobs in flight.
// Results keep the order of series regardless of scheduling.
func renderAll(ctx context.Context, cfg *contract.Config, renderer contract.Renderer, series []schema.Series) []schema.ChartResult {
	results := make([]schema.ChartResult, len(series))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i, s := range series {
		results[i] = schema.ChartResult{Series: s.Title(), Kind: s.Key.Kind}
		if gctx.Err() != nil {
			results[i].Err = gctx.Err()
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			renderChart(cfg, renderer, s, &results[i])
			return nil
		})
	}
	_ = g.Wait() // jobs record their own errors

	return results
}

// renderChart projects one series and writes it to <OutputDir>/<title>.<ext>.
func renderChart(cfg *contract.Config, renderer contract.Renderer, s schema.Series, out *schema.ChartResult) {
	spec, err := ProjectChart(s, cfg.Window)
	if err != nil {
		out.Err = err
		return
	}
	out.Stats = spec.Stats
	out.TrendDelta = spec.Trend[len(spec.Trend)-1].Y - spec.Trend[0].Y

	path := filepath.Join(cfg.OutputDir, spec.Title+"."+renderer.Extension())
	fmt.Printf("🖼️  creating file %s\n", path)

	file, err := os.Create(path)
	if err != nil {
		out.Err = err
		return
	}
	if err := renderer.Render(spec, file); err != nil {
		_ = file.Close()
		out.Err = err
		return
	}
	if err := file.Close(); err != nil {
		out.Err = err
		return
	}
	out.Path = path
}

// runStoreOf returns the run store of mgr, or nil when history is unavailable.
func runStoreOf(mgr contract.HistoryManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}

// chartOutcome converts a chart result into the record kept by the run history.
func chartOutcome(chart schema.ChartResult) schema.ChartOutcome {
	status := statusOK
	if chart.Err != nil {
		status = statusFailed
	}
	return schema.ChartOutcome{
		Series:     chart.Series,
		Kind:       chart.Kind,
		OutputPath: chart.Path,
		Stats:      chart.Stats,
		TrendDelta: chart.TrendDelta,
		Status:     status,
	}
}
