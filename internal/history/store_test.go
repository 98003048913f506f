package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteStore opens a run store backed by a fresh file in a temp dir.
func newSQLiteStore(t *testing.T) contract.RunStore {
	t.Helper()
	store, err := NewRunStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunStore_NoneBackend(t *testing.T) {
	store, err := NewRunStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), "weights.csv", map[string]any{"window": 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordChart(1, schema.ChartOutcome{Series: "complete"}))
	assert.NoError(t, store.EndRun(1, time.Now(), 10, 1, 0))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.Equal(t, "none", status.Backend)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	assert.NoError(t, store.Close())
}

func TestRunStore_UnsupportedBackend(t *testing.T) {
	_, err := NewRunStore("oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestRunStore_SQLiteRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	runID, err := store.BeginRun(start, "/data/weights.csv", map[string]any{"window": 3, "format": "png"})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	outcomes := []schema.ChartOutcome{
		{Series: "complete", Kind: schema.CompleteKind, OutputPath: "/out/complete.png", Stats: schema.Stats{Count: 5, Min: 80, Max: 84, Mean: 82}, TrendDelta: 2.5, Status: "ok"},
		{Series: "2020_01", Kind: schema.MonthKind, Status: "failed"},
	}
	for _, o := range outcomes {
		require.NoError(t, store.RecordChart(runID, o))
	}

	end := start.Add(1250 * time.Millisecond)
	require.NoError(t, store.EndRun(runID, end, 5, 2, 1))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	assert.True(t, end.Equal(*run.EndTime))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1250), *run.RunDurationMs)
	assert.Equal(t, "/data/weights.csv", run.InputPath)
	assert.Equal(t, int32(5), run.TotalRecords)
	assert.Equal(t, int32(2), run.TotalCharts)
	assert.Equal(t, int32(1), run.FailedCharts)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"window":3,"format":"png"}`, *run.ConfigParams)

	series, err := store.GetAllSeries()
	require.NoError(t, err)
	require.Len(t, series, 2)
	// Ordered by series name
	assert.Equal(t, "2020_01", series[0].Series)
	assert.Nil(t, series[0].OutputPath)
	assert.Equal(t, "failed", series[0].Status)
	assert.Equal(t, "complete", series[1].Series)
	assert.Equal(t, "complete", series[1].Kind)
	assert.Equal(t, int32(5), series[1].Count)
	assert.InDelta(t, 82.0, series[1].MeanWeight, 1e-9)
	assert.InDelta(t, 2.5, series[1].TrendDelta, 1e-9)
	require.NotNil(t, series[1].OutputPath)
	assert.Equal(t, "/out/complete.png", *series[1].OutputPath)
}

func TestRunStore_UnfinishedRun(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.BeginRun(time.Now(), "weights.csv", nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
}

func TestRunStore_EndRunUnknownID(t *testing.T) {
	store := newSQLiteStore(t)

	err := store.EndRun(42, time.Now(), 0, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get start_time for run 42")
}

func TestRunStore_DuplicateChart(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun(time.Now(), "weights.csv", nil)
	require.NoError(t, err)
	outcome := schema.ChartOutcome{Series: "complete", Kind: schema.CompleteKind, Status: "ok"}
	require.NoError(t, store.RecordChart(runID, outcome))

	err = store.RecordChart(runID, outcome)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complete")
}

func TestRunStore_GetStatus(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, int64(0), status.TableSizes[runsTable])

	first := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := range 3 {
		start := first.Add(time.Duration(i) * time.Hour)
		runID, err := store.BeginRun(start, "weights.csv", nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordChart(runID, schema.ChartOutcome{Series: "complete", Status: "ok"}))
		require.NoError(t, store.EndRun(runID, start.Add(time.Second), 10, 4, 0))
	}

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 3, status.TotalRuns)
	assert.Equal(t, int64(3), status.LastRunID)
	assert.True(t, first.Add(2*time.Hour).Equal(status.LastRunTime))
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.Equal(t, 12, status.TotalCharts)
	assert.Equal(t, int64(3), status.TableSizes[runsTable])
	assert.Equal(t, int64(3), status.TableSizes[seriesTable])
}

func TestRunStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.BeginRun(time.Now(), "weights.csv", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
