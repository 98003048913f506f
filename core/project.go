package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/huangsam/weightplot/core/algo"
	"github.com/huangsam/weightplot/schema"
)

// ErrEmptySeries is returned when a chart is requested for a series without records.
var ErrEmptySeries = errors.New("series has no records")

// Chart geometry constants.
const (
	axisPadding     = 5.0 // y domain is [min-5, max+5]
	overlayMinCount = 2   // markers need more than this many records
	labelBelow      = 0.2
	labelAbove      = 0.4
	flatTolerance   = 0.05
)

// Styles for chart primitives.
var (
	dotStyle         = schema.Style{Color: schema.Black, DotRadius: 2}
	lineStyle        = schema.Style{Color: schema.Black, StrokeWidth: 1}
	trendStyle       = schema.Style{Color: schema.Blue, StrokeWidth: 3}
	trendPointsStyle = schema.Style{Color: schema.Blue, DotRadius: 5}
)

// ProjectChart assembles the drawable primitives for one series.
// The x axis is the number of days since the date of the series' first record.
func ProjectChart(series schema.Series, window int) (schema.ChartSpec, error) {
	if series.Len() == 0 {
		return schema.ChartSpec{}, fmt.Errorf("%w: %s", ErrEmptySeries, series.Title())
	}

	start := truncateDay(series.At(0).Timestamp)
	dots := make([]schema.Point, 0, series.Len())
	weights := make([]float64, 0, series.Len())
	for _, r := range series.All() {
		dots = append(dots, schema.Point{X: float64(dayOffset(start, r.Timestamp)), Y: r.Weight})
		weights = append(weights, r.Weight)
	}

	stats, err := algo.ComputeStats(weights)
	if err != nil {
		return schema.ChartSpec{}, fmt.Errorf("%s: %w", series.Title(), err)
	}

	line := distinctPositions(dots)
	last := dots[len(dots)-1].X

	spec := schema.ChartSpec{
		Title:       series.Title(),
		Kind:        series.Key.Kind,
		StartDate:   start,
		XRange:      schema.AxisRange{Min: 0, Max: last},
		YRange:      schema.AxisRange{Min: stats.Min - axisPadding, Max: stats.Max + axisPadding},
		Ticks:       axisTicks(start, int(last)),
		Dots:        dots,
		DotStyle:    dotStyle,
		Line:        line,
		LineStyle:   lineStyle,
		Trend:       algo.SmoothTrend(line, window),
		TrendStyle:  trendStyle,
		TrendPoints: trendPointsStyle,
		Stats:       stats,
	}
	if series.Len() > overlayMinCount {
		spec.Markers = summaryMarkers(stats, dots[1].X, last)
	}
	return spec, nil
}

// summaryMarkers builds the min, max and avg lines spanning the whole x domain.
// Labels sit at labelX, just below (min, avg) or above (max) their line.
func summaryMarkers(stats schema.Stats, labelX, to float64) []schema.Marker {
	marker := func(name string, y, labelY float64, color schema.Color) schema.Marker {
		return schema.Marker{
			Name:   name,
			Y:      y,
			From:   0,
			To:     to,
			Label:  formatLabel(y),
			LabelX: labelX,
			LabelY: labelY,
			Style:  schema.Style{Color: color, StrokeWidth: 1},
		}
	}
	return []schema.Marker{
		marker("min", stats.Min, stats.Min-labelBelow, schema.Green),
		marker("max", stats.Max, stats.Max+labelAbove, schema.Red),
		marker("avg", stats.Mean, stats.Mean-labelBelow, schema.Yellow),
	}
}

// formatLabel rounds to one decimal and drops a trailing ".0".
func formatLabel(v float64) string {
	return strconv.FormatFloat(algo.RoundTo(v, 1), 'f', -1, 64)
}

// distinctPositions keeps the first dot of every run of dots sharing an x position.
func distinctPositions(dots []schema.Point) []schema.Point {
	out := make([]schema.Point, 0, len(dots))
	for i, d := range dots {
		if i > 0 && d.X == out[len(out)-1].X {
			continue
		}
		out = append(out, d)
	}
	return out
}

// axisTicks spreads at most schema.MaxAxisTicks labeled ticks over [0, span] days.
func axisTicks(start time.Time, span int) []schema.Tick {
	step := 1
	if span >= schema.MaxAxisTicks {
		step = int(math.Ceil(float64(span) / float64(schema.MaxAxisTicks-1)))
	}
	ticks := make([]schema.Tick, 0, min(span+1, schema.MaxAxisTicks))
	for day := 0; day <= span; day += step {
		ticks = append(ticks, schema.Tick{Value: float64(day), Label: schema.FormatDayMonth(start, day)})
	}
	return ticks
}

// truncateDay drops the time of day. Timestamps carry no zone and are read as UTC.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// dayOffset returns the number of whole calendar days from start to the date of t.
// Day numbers come from Unix seconds so spans past the range of time.Duration stay exact.
func dayOffset(start, t time.Time) int {
	return int(truncateDay(t).Unix()/secondsPerDay - truncateDay(start).Unix()/secondsPerDay)
}

// BuildSummary computes the per-series figures reported by the stats command.
func BuildSummary(series schema.Series, window int) (schema.SeriesSummary, error) {
	spec, err := ProjectChart(series, window)
	if err != nil {
		return schema.SeriesSummary{}, err
	}
	first, last := spec.Trend[0].Y, spec.Trend[len(spec.Trend)-1].Y
	delta := last - first
	return schema.SeriesSummary{
		Series:     spec.Title,
		Kind:       spec.Kind,
		From:       series.At(0).Timestamp,
		To:         series.At(series.Len() - 1).Timestamp,
		Count:      spec.Stats.Count,
		Min:        spec.Stats.Min,
		Max:        spec.Stats.Max,
		Mean:       spec.Stats.Mean,
		TrendStart: first,
		TrendEnd:   last,
		TrendDelta: delta,
		Direction:  schema.TrendDirectionOf(delta, flatTolerance),
	}, nil
}
