// Package parquet provides data structures and functions for exporting weightplot
// history and summaries to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/weightplot/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single plot run with metadata.
// This struct maps to the weightplot_runs database table.
type Run struct {
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is nil for runs that never finished
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`

	InputPath    string `parquet:"input_path,snappy"`
	TotalRecords int32  `parquet:"total_records,snappy"`
	TotalCharts  int32  `parquet:"total_charts,snappy"`
	FailedCharts int32  `parquet:"failed_charts,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Chart represents one generated chart of a run.
// This struct maps to the weightplot_series database table.
type Chart struct {
	RunID      int64     `parquet:"run_id,snappy"`
	Series     string    `parquet:"series,snappy"`
	Kind       string    `parquet:"kind,snappy"`
	RecordTime time.Time `parquet:"record_time,snappy"`
	Count      int32     `parquet:"record_count,snappy"`
	MinWeight  float64   `parquet:"min_weight,snappy"`
	MaxWeight  float64   `parquet:"max_weight,snappy"`
	MeanWeight float64   `parquet:"mean_weight,snappy"`
	TrendDelta float64   `parquet:"trend_delta,snappy"`
	OutputPath *string   `parquet:"output_path,optional,snappy"`
	Status     string    `parquet:"status,snappy"`
}

// Summary is one row of the stats command.
type Summary struct {
	Series     string    `parquet:"series,snappy"`
	Kind       string    `parquet:"kind,snappy"`
	From       time.Time `parquet:"from,snappy"`
	To         time.Time `parquet:"to,snappy"`
	Count      int32     `parquet:"count,snappy"`
	Min        float64   `parquet:"min,snappy"`
	Max        float64   `parquet:"max,snappy"`
	Mean       float64   `parquet:"mean,snappy"`
	TrendStart float64   `parquet:"trend_start,snappy"`
	TrendEnd   float64   `parquet:"trend_end,snappy"`
	TrendDelta float64   `parquet:"trend_delta,snappy"`
	Direction  string    `parquet:"direction,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteChartsParquet writes a slice of Chart structs to a Parquet file.
func WriteChartsParquet(data []Chart, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteSummaries encodes summaries as Parquet into w.
func WriteSummaries(w io.Writer, data []Summary) error {
	return write(w, data)
}

// writeFile creates outputPath and writes all rows to it.
func writeFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// write encodes rows with a schema derived from the struct tags of T.
func write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			InputPath:     record.InputPath,
			TotalRecords:  record.TotalRecords,
			TotalCharts:   record.TotalCharts,
			FailedCharts:  record.FailedCharts,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSeriesRecords converts schema.SeriesRecord to Chart for Parquet export.
func ConvertSeriesRecords(records []schema.SeriesRecord) []Chart {
	result := make([]Chart, len(records))
	for i, record := range records {
		result[i] = Chart{
			RunID:      record.RunID,
			Series:     record.Series,
			Kind:       record.Kind,
			RecordTime: record.RecordTime,
			Count:      record.Count,
			MinWeight:  record.MinWeight,
			MaxWeight:  record.MaxWeight,
			MeanWeight: record.MeanWeight,
			TrendDelta: record.TrendDelta,
			OutputPath: record.OutputPath,
			Status:     record.Status,
		}
	}
	return result
}

// ConvertSummaries converts schema.SeriesSummary to Summary for Parquet export.
func ConvertSummaries(summaries []schema.SeriesSummary) []Summary {
	result := make([]Summary, len(summaries))
	for i, s := range summaries {
		result[i] = Summary{
			Series:     s.Series,
			Kind:       string(s.Kind),
			From:       s.From,
			To:         s.To,
			Count:      int32(s.Count),
			Min:        s.Min,
			Max:        s.Max,
			Mean:       s.Mean,
			TrendStart: s.TrendStart,
			TrendEnd:   s.TrendEnd,
			TrendDelta: s.TrendDelta,
			Direction:  string(s.Direction),
		}
	}
	return result
}
