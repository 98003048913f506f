package algo

import (
	"errors"
	"math"

	"github.com/huangsam/weightplot/schema"
)

// ErrNoValues is returned when statistics are requested for an empty input.
var ErrNoValues = errors.New("no values to summarize")

// ComputeStats returns min, max and arithmetic mean of the weights.
func ComputeStats(values []float64) (schema.Stats, error) {
	if len(values) == 0 {
		return schema.Stats{}, ErrNoValues
	}
	stats := schema.Stats{
		Count: len(values),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}
	var sum float64
	for _, v := range values {
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
		sum += v
	}
	stats.Mean = sum / float64(len(values))
	return stats, nil
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
