package schema

import "time"

// SeriesSummary is the per-series row produced by the stats command.
type SeriesSummary struct {
	Series     string         `json:"series"`
	Kind       ChartKind      `json:"kind"`
	From       time.Time      `json:"from"`
	To         time.Time      `json:"to"`
	Count      int            `json:"count"`
	Min        float64        `json:"min"`
	Max        float64        `json:"max"`
	Mean       float64        `json:"mean"`
	TrendStart float64        `json:"trend_start"`
	TrendEnd   float64        `json:"trend_end"`
	TrendDelta float64        `json:"trend_delta"`
	Direction  TrendDirection `json:"direction"`
}

// ParseStats counts what happened while reading an input file.
type ParseStats struct {
	LinesRead         int `json:"lines_read"`
	RecordsKept       int `json:"records_kept"`
	TimestampFailures int `json:"timestamp_failures"`
	WeightFailures    int `json:"weight_failures"`
	ReadErrors        int `json:"read_errors"`
}

// ChartResult is the outcome of generating one chart.
type ChartResult struct {
	Series     string    `json:"series"`
	Kind       ChartKind `json:"kind"`
	Path       string    `json:"path"`
	Stats      Stats     `json:"stats"`
	TrendDelta float64   `json:"trend_delta"`
	Err        error     `json:"-"`
}

// PlotResult is the outcome of a plot run.
type PlotResult struct {
	Input    string        `json:"input"`
	Parse    ParseStats    `json:"parse"`
	Charts   []ChartResult `json:"charts"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// TrendDirectionOf classifies a trend delta. Deltas within tolerance count as flat.
func TrendDirectionOf(delta, tolerance float64) TrendDirection {
	switch {
	case delta > tolerance:
		return TrendUp
	case delta < -tolerance:
		return TrendDown
	default:
		return TrendFlat
	}
}
