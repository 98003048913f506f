// Package algo has the numeric building blocks for weight charts.
package algo

import "github.com/huangsam/weightplot/schema"

// DefaultWindow is the number of raw weights gathered before a trend point is emitted.
const DefaultWindow = 3

// SmoothTrend computes a blocky running average over dots with distinct, ascending X.
//
// The first dot is emitted unchanged and also seeds the window. Every later dot is
// pushed into the window until it holds `window` values; the next dot then emits
// (sum(window)+weight)/(len(window)+1) at its own position and resets the window.
// When the last emitted point is not at the final dot, the leftover window (which
// ends with the final weight) is averaged and emitted at the final position.
func SmoothTrend(dots []schema.Point, window int) []schema.Point {
	if len(dots) == 0 {
		return nil
	}
	if window <= 0 {
		window = DefaultWindow
	}

	trend := []schema.Point{dots[0]}
	pending := make([]float64, 0, window)
	pending = append(pending, dots[0].Y)

	for _, d := range dots[1:] {
		if len(pending) < window {
			pending = append(pending, d.Y)
			continue
		}
		trend = append(trend, schema.Point{X: d.X, Y: average(pending, d.Y)})
		pending = pending[:0]
	}

	last := dots[len(dots)-1]
	if trend[len(trend)-1].X != last.X && len(pending) > 0 {
		trend = append(trend, schema.Point{X: last.X, Y: mean(pending)})
	}
	return trend
}

// average returns (sum(values)+extra)/(len(values)+1).
func average(values []float64, extra float64) float64 {
	sum := extra
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)+1)
}

// mean returns the arithmetic mean of a non-empty slice.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
