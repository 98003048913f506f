package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/weightplot/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRunRecords() []schema.RunRecord {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	duration := int32(1500)
	params := `{"window":3,"format":"png"}`
	return []schema.RunRecord{
		{
			RunID:         1,
			StartTime:     start,
			EndTime:       &end,
			RunDurationMs: &duration,
			InputPath:     "/data/weights.csv",
			TotalRecords:  120,
			TotalCharts:   6,
			FailedCharts:  1,
			ConfigParams:  &params,
		},
		{
			RunID:     2,
			StartTime: start.Add(time.Hour),
			InputPath: "/data/weights.csv",
			// Still running - nullable fields left empty
		},
	}
}

func readAll[T any](t *testing.T, r io.ReaderAt, size int64) []T {
	t.Helper()
	rows, err := parquet.Read[T](r, size)
	require.NoError(t, err)
	return rows
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"run", new(Run), []string{"run_id", "start_time", "end_time", "run_duration_ms", "input_path", "total_records", "total_charts", "failed_charts", "config_params"}},
		{"chart", new(Chart), []string{"run_id", "series", "kind", "record_time", "record_count", "min_weight", "max_weight", "mean_weight", "trend_delta", "output_path", "status"}},
		{"summary", new(Summary), []string{"series", "kind", "from", "to", "count", "min", "max", "mean", "trend_start", "trend_end", "trend_delta", "direction"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist in schema", col)
			}
		})
	}
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := ConvertRunRecords(sampleRunRecords())

	require.NoError(t, WriteRunsParquet(data, outputPath))

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	require.NoError(t, err)

	got := readAll[Run](t, f, info.Size())
	require.Len(t, got, len(data))

	assert.Equal(t, int64(1), got[0].RunID)
	assert.Equal(t, int32(120), got[0].TotalRecords)
	assert.Equal(t, int32(1), got[0].FailedCharts)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, *data[0].EndTime, *got[0].EndTime, time.Nanosecond)
	require.NotNil(t, got[0].RunDurationMs)
	assert.Equal(t, int32(1500), *got[0].RunDurationMs)
	require.NotNil(t, got[0].ConfigParams)
	assert.Equal(t, *data[0].ConfigParams, *got[0].ConfigParams)

	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].RunDurationMs)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteChartsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "charts.parquet")
	path := "/out/2020_01.png"
	records := []schema.SeriesRecord{
		{RunID: 1, Series: "2020_01", Kind: "month", RecordTime: time.Now(), Count: 3, MinWeight: 80, MaxWeight: 82, MeanWeight: 81, TrendDelta: -1.5, OutputPath: &path, Status: "ok"},
		{RunID: 1, Series: "2020_02", Kind: "month", RecordTime: time.Now(), Count: 0, Status: "failed"},
	}

	require.NoError(t, WriteChartsParquet(ConvertSeriesRecords(records), outputPath))

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	require.NoError(t, err)

	got := readAll[Chart](t, f, info.Size())
	require.Len(t, got, 2)
	assert.Equal(t, "2020_01", got[0].Series)
	assert.InDelta(t, 81.0, got[0].MeanWeight, 0.001)
	assert.InDelta(t, -1.5, got[0].TrendDelta, 0.001)
	require.NotNil(t, got[0].OutputPath)
	assert.Equal(t, path, *got[0].OutputPath)
	assert.Nil(t, got[1].OutputPath)
	assert.Equal(t, "failed", got[1].Status)
}

func TestWriteSummaries(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	summaries := []schema.SeriesSummary{
		{Series: "complete", Kind: schema.CompleteKind, From: from, To: from.AddDate(0, 1, 0), Count: 5, Min: 80, Max: 84, Mean: 82, TrendStart: 80, TrendEnd: 83, TrendDelta: 3, Direction: schema.TrendUp},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaries(&buf, ConvertSummaries(summaries)))
	require.NotZero(t, buf.Len())

	got := readAll[Summary](t, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Len(t, got, 1)
	assert.Equal(t, "complete", got[0].Series)
	assert.Equal(t, "complete", got[0].Kind)
	assert.Equal(t, int32(5), got[0].Count)
	assert.Equal(t, string(schema.TrendUp), got[0].Direction)
	assert.WithinDuration(t, from, got[0].From, time.Nanosecond)
}

func TestWriteRunsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteRunsParquet([]Run{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "empty files still carry a footer")
}

func TestWriteRunsParquet_BadPath(t *testing.T) {
	err := WriteRunsParquet(nil, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
