// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"io"
	"time"

	"github.com/huangsam/weightplot/schema"
)

// Renderer draws a chart specification into an image.
// This allows the plot pipeline to be tested without a real drawing backend.
type Renderer interface {
	// Render encodes the chart described by spec and writes it to w.
	Render(spec schema.ChartSpec, w io.Writer) error

	// Extension returns the file extension of the encoded image, without the dot.
	Extension() string
}

// SummaryWriter writes series summaries in the configured output format.
type SummaryWriter interface {
	WriteSummaries(summaries []schema.SeriesSummary, parse schema.ParseStats, cfg *Config, duration time.Duration) error
}

// HistoryManager defines the interface for managing run history stores.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking plot runs and the charts they produce.
type RunStore interface {
	// BeginRun creates a new plot run and returns its unique ID
	BeginRun(startTime time.Time, inputPath string, configParams map[string]any) (int64, error)

	// RecordChart stores the outcome of one chart of a run
	RecordChart(runID int64, outcome schema.ChartOutcome) error

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRecords, totalCharts, failedCharts int) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllSeries returns every recorded chart ordered by run ID and series
	GetAllSeries() ([]schema.SeriesRecord, error)

	// Close closes the underlying connection
	Close() error
}
