// Package schema has models, enums and chart specifications for all parts of weightplot.
package schema

import (
	"fmt"
	"iter"
	"time"
)

// Record is a single weight measurement parsed from one input line.
// The zero value is the parser's scratch state and never leaves the parser as valid output.
type Record struct {
	Timestamp time.Time `json:"timestamp"` // Second precision, no zone (stored as UTC)
	Weight    float64   `json:"weight"`    // 0 when the weight field failed to parse
}

// Point is a position on a chart: X is a day offset, Y is a weight.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ParseIssue describes why one input line could not be fully parsed.
type ParseIssue struct {
	Index   int    `json:"index"`   // Zero-based line index
	Line    string `json:"line"`    // Offending line without its terminator
	Reason  string `json:"reason"`  // e.g. "could not parse: timestamp"
	Dropped bool   `json:"dropped"` // True when the record was discarded
}

// Error implements the error interface so issues can flow through the log helpers.
func (p *ParseIssue) Error() string {
	return p.Reason
}

// SeriesKey identifies a series by its scope.
type SeriesKey struct {
	Kind  ChartKind `json:"kind"`
	Year  int       `json:"year,omitempty"`
	Month int       `json:"month,omitempty"`
}

// Title returns the chart title, which doubles as the output file stem.
func (k SeriesKey) Title() string {
	switch k.Kind {
	case YearKind:
		return fmt.Sprintf("%d_full", k.Year)
	case MonthKind:
		return fmt.Sprintf("%d_%02d", k.Year, k.Month)
	default:
		return string(CompleteKind)
	}
}

// Series is a read-only, chronologically ordered view over a shared record store.
// It references records by index and never copies them.
type Series struct {
	Key   SeriesKey
	store []Record
	index []int
}

// NewSeries builds a view over store restricted to the given indexes.
func NewSeries(key SeriesKey, store []Record, index []int) Series {
	return Series{Key: key, store: store, index: index}
}

// Title is shorthand for s.Key.Title().
func (s Series) Title() string {
	return s.Key.Title()
}

// Len returns the number of records in the series.
func (s Series) Len() int {
	return len(s.index)
}

// At returns the i-th record of the series.
func (s Series) At(i int) Record {
	return s.store[s.index[i]]
}

// All iterates the records in chronological order.
func (s Series) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, idx := range s.index {
			if !yield(i, s.store[idx]) {
				return
			}
		}
	}
}

// Indexes returns the positions of the series members inside the shared store.
func (s Series) Indexes() []int {
	return s.index
}
