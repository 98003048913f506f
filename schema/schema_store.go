package schema

import "time"

// ChartOutcome is what the history store records for one generated chart.
type ChartOutcome struct {
	Series     string
	Kind       ChartKind
	OutputPath string
	Stats      Stats
	TrendDelta float64
	Status     string // "ok" or "failed"
}

// RunRecord represents a row from the weightplot_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	InputPath     string
	TotalRecords  int32
	TotalCharts   int32
	FailedCharts  int32
	ConfigParams  *string
}

// SeriesRecord represents a row from the weightplot_series table.
type SeriesRecord struct {
	RunID      int64
	Series     string
	Kind       string
	RecordTime time.Time
	Count      int32
	MinWeight  float64
	MaxWeight  float64
	MeanWeight float64
	TrendDelta float64
	OutputPath *string
	Status     string
}

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalCharts   int              `json:"total_charts"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
