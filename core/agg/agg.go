// Package agg groups weight records by year and by year+month.
package agg

import (
	"maps"
	"slices"

	"github.com/huangsam/weightplot/schema"
)

// Aggregation is the result of one grouping pass.
// It owns the canonical record store; every bucket holds indexes into it.
// It is read-only after Aggregate returns.
type Aggregation struct {
	store  []schema.Record
	whole  []int
	years  map[int][]int
	months map[int]map[int][]int
}

// Aggregate groups records that are already sorted chronologically.
// Each record lands in exactly one year bucket and exactly one month bucket.
func Aggregate(records []schema.Record) *Aggregation {
	a := &Aggregation{
		store:  slices.Clone(records),
		whole:  make([]int, len(records)),
		years:  make(map[int][]int),
		months: make(map[int]map[int][]int),
	}

	for i, r := range a.store {
		year := r.Timestamp.Year()
		month := int(r.Timestamp.Month())

		a.whole[i] = i
		a.years[year] = append(a.years[year], i)

		byMonth, ok := a.months[year]
		if !ok {
			byMonth = make(map[int][]int)
			a.months[year] = byMonth
		}
		byMonth[month] = append(byMonth[month], i)
	}

	return a
}

// Len returns the number of records in the aggregation.
func (a *Aggregation) Len() int {
	return len(a.store)
}

// Whole returns the complete series.
func (a *Aggregation) Whole() schema.Series {
	return schema.NewSeries(schema.SeriesKey{Kind: schema.CompleteKind}, a.store, a.whole)
}

// Years returns the distinct years in ascending order.
func (a *Aggregation) Years() []int {
	return slices.Sorted(maps.Keys(a.years))
}

// Year returns the series for one year. Unknown years yield an empty series.
func (a *Aggregation) Year(year int) schema.Series {
	return schema.NewSeries(schema.SeriesKey{Kind: schema.YearKind, Year: year}, a.store, a.years[year])
}

// Months returns the distinct months of a year in ascending order.
func (a *Aggregation) Months(year int) []int {
	return slices.Sorted(maps.Keys(a.months[year]))
}

// Month returns the series for one year+month. Unknown keys yield an empty series.
func (a *Aggregation) Month(year, month int) schema.Series {
	key := schema.SeriesKey{Kind: schema.MonthKind, Year: year, Month: month}
	return schema.NewSeries(key, a.store, a.months[year][month])
}

// AllSeries returns every series in chart order: complete, each year ascending,
// then each year's months ascending.
func (a *Aggregation) AllSeries() []schema.Series {
	years := a.Years()
	out := make([]schema.Series, 0, 1+len(years)*2)
	out = append(out, a.Whole())
	for _, y := range years {
		out = append(out, a.Year(y))
	}
	for _, y := range years {
		for _, m := range a.Months(y) {
			out = append(out, a.Month(y, m))
		}
	}
	return out
}

// Find returns the series with the given title.
func (a *Aggregation) Find(title string) (schema.Series, bool) {
	for _, s := range a.AllSeries() {
		if s.Title() == title {
			return s, true
		}
	}
	return schema.Series{}, false
}
