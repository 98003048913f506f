package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/internal/history"
	"github.com/huangsam/weightplot/internal/render"
	"github.com/huangsam/weightplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const twoMonths = `"2020-01-01 08:00:00",80.0,
"2020-01-03 08:00:00",79.5,
"2020-01-10 08:00:00",79.0,
"2020-02-02 08:00:00",78.5,
"2020-02-05 08:00:00",78.0,
`

// writeInput stores content in a temp file and returns its path.
func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func plotConfig(t *testing.T, input string) *contract.Config {
	t.Helper()
	return &contract.Config{
		InputPath: input,
		OutputDir: filepath.Join(t.TempDir(), "charts"),
		Format:    schema.PNGFormat,
		Workers:   2,
		Window:    3,
	}
}

func okRenderer() *contract.MockRenderer {
	r := &contract.MockRenderer{}
	r.On("Extension").Return("png")
	r.On("Render", mock.Anything, mock.Anything).Return(nil)
	return r
}

func noHistory() *history.MockHistoryManager {
	mgr := &history.MockHistoryManager{}
	mgr.On("GetRunStore").Return(nil)
	return mgr
}

func TestExecutePlotWritesOneFilePerSeries(t *testing.T) {
	cfg := plotConfig(t, writeInput(t, twoMonths))

	result, err := ExecutePlot(context.Background(), cfg, okRenderer(), noHistory())
	require.NoError(t, err)

	titles := make([]string, len(result.Charts))
	for i, c := range result.Charts {
		titles[i] = c.Series
		require.NoError(t, c.Err)
		assert.FileExists(t, c.Path)
	}
	assert.Equal(t, []string{"complete", "2020_full", "2020_01", "2020_02"}, titles)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 5, result.Parse.RecordsKept)

	for _, name := range []string{"complete.png", "2020_full.png", "2020_01.png", "2020_02.png"} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}
	assert.Equal(t, 3, result.Charts[2].Stats.Count)
	assert.Equal(t, 2, result.Charts[3].Stats.Count)
}

func TestExecutePlotWithChartRenderer(t *testing.T) {
	for _, format := range []schema.ImageFormat{schema.PNGFormat, schema.SVGFormat} {
		t.Run(string(format), func(t *testing.T) {
			cfg := plotConfig(t, writeInput(t, twoMonths))
			cfg.Format = format

			result, err := ExecutePlot(context.Background(), cfg, render.NewChartRenderer(format), nil)
			require.NoError(t, err)
			require.Len(t, result.Charts, 4)

			info, err := os.Stat(filepath.Join(cfg.OutputDir, "2020_01."+string(format)))
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		})
	}
}

func TestExecutePlotOrderIndependentOfWorkers(t *testing.T) {
	input := writeInput(t, twoMonths)

	var runs [][]string
	for _, workers := range []int{1, 4} {
		cfg := plotConfig(t, input)
		cfg.Workers = workers
		result, err := ExecutePlot(context.Background(), cfg, okRenderer(), nil)
		require.NoError(t, err)

		var titles []string
		for _, c := range result.Charts {
			titles = append(titles, c.Series)
		}
		runs = append(runs, titles)
	}
	assert.Equal(t, runs[0], runs[1])
}

func TestExecutePlotOnlyKind(t *testing.T) {
	cfg := plotConfig(t, writeInput(t, twoMonths))
	cfg.Only = schema.MonthKind

	result, err := ExecutePlot(context.Background(), cfg, okRenderer(), nil)
	require.NoError(t, err)
	require.Len(t, result.Charts, 2)
	assert.Equal(t, "2020_01", result.Charts[0].Series)
	assert.Equal(t, "2020_02", result.Charts[1].Series)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "complete.png"))
}

func TestExecutePlotChartFailureIsNotFatal(t *testing.T) {
	cfg := plotConfig(t, writeInput(t, twoMonths))

	renderer := &contract.MockRenderer{}
	renderer.On("Extension").Return("png")
	renderer.On("Render", mock.MatchedBy(func(spec schema.ChartSpec) bool {
		return spec.Title == "2020_02"
	}), mock.Anything).Return(errors.New("boom"))
	renderer.On("Render", mock.Anything, mock.Anything).Return(nil)

	result, err := ExecutePlot(context.Background(), cfg, renderer, nil)
	require.NoError(t, err)
	require.Len(t, result.Charts, 4)
	assert.Equal(t, 1, result.Failed)
	assert.EqualError(t, result.Charts[3].Err, "boom")
	assert.Empty(t, result.Charts[3].Path)
	assert.NoError(t, result.Charts[0].Err)
}

func TestExecutePlotRecordsHistory(t *testing.T) {
	cfg := plotConfig(t, writeInput(t, twoMonths))

	store := &history.MockRunStore{}
	store.On("BeginRun", mock.Anything, cfg.InputPath, cfg.ConfigParams()).Return(int64(7), nil)
	store.On("RecordChart", int64(7), mock.MatchedBy(func(o schema.ChartOutcome) bool {
		return o.Status == "ok" && o.OutputPath != ""
	})).Return(nil).Times(4)
	store.On("EndRun", int64(7), mock.Anything, 5, 4, 0).Return(nil)

	mgr := &history.MockHistoryManager{}
	mgr.On("GetRunStore").Return(store)

	_, err := ExecutePlot(context.Background(), cfg, okRenderer(), mgr)
	require.NoError(t, err)

	store.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestExecutePlotHistoryFailureIsNotFatal(t *testing.T) {
	cfg := plotConfig(t, writeInput(t, twoMonths))

	store := &history.MockRunStore{}
	store.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	mgr := &history.MockHistoryManager{}
	mgr.On("GetRunStore").Return(store)

	result, err := ExecutePlot(context.Background(), cfg, okRenderer(), mgr)
	require.NoError(t, err)
	assert.Len(t, result.Charts, 4)
	store.AssertNotCalled(t, "RecordChart", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecutePlotInputErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := plotConfig(t, filepath.Join(t.TempDir(), "missing.csv"))
		_, err := ExecutePlot(context.Background(), cfg, okRenderer(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open input")
	})

	t.Run("no records", func(t *testing.T) {
		cfg := plotConfig(t, writeInput(t, "weight log\nexported today\n"))
		result, err := ExecutePlot(context.Background(), cfg, okRenderer(), nil)
		require.ErrorIs(t, err, ErrNoRecords)
		assert.Equal(t, 2, result.Parse.TimestampFailures)
		assert.NoDirExists(t, cfg.OutputDir)
	})
}

func TestExecutePlotCancelled(t *testing.T) {
	cfg := plotConfig(t, writeInput(t, twoMonths))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := ExecutePlot(ctx, cfg, okRenderer(), nil)
	require.ErrorIs(t, err, context.Canceled)
	for _, c := range result.Charts {
		assert.ErrorIs(t, c.Err, context.Canceled)
	}
}

func TestChartOutcome(t *testing.T) {
	ok := chartOutcome(schema.ChartResult{Series: "complete", Kind: schema.CompleteKind, Path: "/out/complete.png", TrendDelta: -2})
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, "/out/complete.png", ok.OutputPath)
	assert.Equal(t, -2.0, ok.TrendDelta)

	failed := chartOutcome(schema.ChartResult{Series: "2020_01", Err: errors.New("boom")})
	assert.Equal(t, "failed", failed.Status)
}
