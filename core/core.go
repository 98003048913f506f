// Package core turns weight logs into chart specifications and drives the plot and stats runs.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/weightplot/core/agg"
	"github.com/huangsam/weightplot/core/parse"
	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/schema"
)

// ErrNoRecords is returned when an input yields no usable records.
var ErrNoRecords = errors.New("no records found")

// ExecutorFunc defines the function signature for executing a pipeline run.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// LoadAggregation reads, sorts and groups every record of the file at path.
// Parse issues are handed to report as they are found.
func LoadAggregation(path string, report parse.Reporter) (*agg.Aggregation, schema.ParseStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, schema.ParseStats{}, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	parser := parse.NewParser(report)
	records := parser.ReadAll(file)
	if len(records) == 0 {
		return nil, parser.Stats(), fmt.Errorf("%w in %s", ErrNoRecords, path)
	}
	return agg.Aggregate(records), parser.Stats(), nil
}

// selectSeries returns the series of the aggregation in chart order,
// restricted to one kind when only is set.
func selectSeries(aggregation *agg.Aggregation, only schema.ChartKind) []schema.Series {
	all := aggregation.AllSeries()
	if only == "" {
		return all
	}
	out := make([]schema.Series, 0, len(all))
	for _, s := range all {
		if s.Key.Kind == only {
			out = append(out, s)
		}
	}
	return out
}
