package core

import (
	"context"
	"time"

	"github.com/huangsam/weightplot/core/agg"
	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/schema"
)

// ExecuteStats summarizes every series of the configured input and hands the rows to ow.
func ExecuteStats(ctx context.Context, cfg *contract.Config, ow contract.SummaryWriter) error {
	start := time.Now()

	aggregation, parseStats, err := LoadAggregation(cfg.InputPath, contract.LogParseIssue)
	if err != nil {
		return err
	}

	summaries, err := Summarize(ctx, aggregation, cfg.Only, cfg.Window)
	if err != nil {
		return err
	}
	return ow.WriteSummaries(summaries, parseStats, cfg, time.Since(start))
}

// Summarize builds one summary per series in chart order.
func Summarize(ctx context.Context, aggregation *agg.Aggregation, only schema.ChartKind, window int) ([]schema.SeriesSummary, error) {
	series := selectSeries(aggregation, only)
	summaries := make([]schema.SeriesSummary, 0, len(series))
	for _, s := range series {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary, err := BuildSummary(s, window)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
