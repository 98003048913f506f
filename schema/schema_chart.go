package schema

import (
	"fmt"
	"time"
)

// Color is a named color understood by the renderer.
type Color string

// Colors used by chart primitives.
const (
	Black  Color = "black"
	Blue   Color = "blue"
	Green  Color = "green"
	Red    Color = "red"
	Yellow Color = "yellow"
)

// Style describes how a primitive is drawn.
type Style struct {
	Color       Color   `json:"color"`
	DotRadius   float64 `json:"dot_radius,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
}

// AxisRange is a closed numeric interval on one axis.
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Tick is one labeled position on the x axis.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Stats holds summary statistics for the weights of a series.
type Stats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Marker is a full-width horizontal line with a text label.
type Marker struct {
	Name   string  `json:"name"` // min, max or avg
	Y      float64 `json:"y"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Label  string  `json:"label"`
	LabelX float64 `json:"label_x"`
	LabelY float64 `json:"label_y"`
	Style  Style   `json:"style"`
}

// ChartSpec is everything a renderer needs to draw one chart.
// It is plain data so that identical input yields identical specs.
type ChartSpec struct {
	Title       string    `json:"title"`
	Kind        ChartKind `json:"kind"`
	StartDate   time.Time `json:"start_date"`
	XRange      AxisRange `json:"x_range"`
	YRange      AxisRange `json:"y_range"`
	Ticks       []Tick    `json:"ticks"`
	Dots        []Point   `json:"dots"`
	DotStyle    Style     `json:"dot_style"`
	Line        []Point   `json:"line"`
	LineStyle   Style     `json:"line_style"`
	Trend       []Point   `json:"trend"`
	TrendStyle  Style     `json:"trend_style"`
	TrendPoints Style     `json:"trend_points_style"`
	Markers     []Marker  `json:"markers,omitempty"`
	Stats       Stats     `json:"stats"`
}

// AxisLabel formats a day offset as "D.M." relative to the chart's start date.
func (c ChartSpec) AxisLabel(offset float64) string {
	return FormatDayMonth(c.StartDate, int(offset))
}

// FormatDayMonth returns the date start+days formatted as "D.M." without leading zeros.
func FormatDayMonth(start time.Time, days int) string {
	d := start.AddDate(0, 0, days)
	return fmt.Sprintf("%d.%d.", d.Day(), int(d.Month()))
}
