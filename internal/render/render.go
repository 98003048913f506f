// Package render draws chart specifications with go-chart.
package render

import (
	"fmt"
	"io"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/schema"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette maps chart colors to concrete RGBA values.
var palette = map[schema.Color]drawing.Color{
	schema.Black:  {R: 0, G: 0, B: 0, A: 255},
	schema.Blue:   {R: 0, G: 0, B: 255, A: 255},
	schema.Green:  {R: 0, G: 255, B: 0, A: 255},
	schema.Red:    {R: 255, G: 0, B: 0, A: 255},
	schema.Yellow: {R: 255, G: 255, B: 0, A: 255},
}

// ChartRenderer encodes chart specifications as PNG or SVG images.
type ChartRenderer struct {
	format schema.ImageFormat
}

var _ contract.Renderer = &ChartRenderer{} // Compile-time check

// NewChartRenderer creates a renderer for the given image format.
func NewChartRenderer(format schema.ImageFormat) *ChartRenderer {
	return &ChartRenderer{format: format}
}

// Extension implements the Renderer interface.
func (r *ChartRenderer) Extension() string {
	return string(r.format)
}

// Render implements the Renderer interface.
func (r *ChartRenderer) Render(spec schema.ChartSpec, w io.Writer) error {
	ch := BuildChart(spec)

	var provider chart.RendererProvider
	switch r.format {
	case schema.SVGFormat:
		provider = chart.SVG
	case schema.PNGFormat, "":
		provider = chart.PNG
	default:
		return fmt.Errorf("unsupported image format: %s", r.format)
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render %s: %w", spec.Title, err)
	}
	return nil
}

// BuildChart translates a chart specification into a go-chart chart.
// Series are layered bottom to top: dots, line, trend, markers.
func BuildChart(spec schema.ChartSpec) chart.Chart {
	width, height := spec.Kind.Size()

	xRange := spec.XRange
	if xRange.Max <= xRange.Min {
		xRange.Max = xRange.Min + 1
	}

	ticks := make([]chart.Tick, len(spec.Ticks))
	for i, t := range spec.Ticks {
		ticks[i] = chart.Tick{Value: t.Value, Label: t.Label}
	}

	series := []chart.Series{
		continuous("dots", spec.Dots, dotsStyle(spec.DotStyle)),
		continuous("line", spec.Line, strokeStyle(spec.LineStyle)),
		continuous("trend", spec.Trend, strokeStyle(spec.TrendStyle)),
		continuous("trend points", spec.Trend, dotsStyle(spec.TrendPoints)),
	}

	if len(spec.Markers) > 0 {
		labels := make([]chart.Value2, 0, len(spec.Markers))
		for _, m := range spec.Markers {
			line := []schema.Point{{X: m.From, Y: m.Y}, {X: m.To, Y: m.Y}}
			series = append(series, continuous(m.Name, line, strokeStyle(m.Style)))
			labels = append(labels, chart.Value2{XValue: m.LabelX, YValue: m.LabelY, Label: m.Label})
		}
		series = append(series, chart.AnnotationSeries{Name: "labels", Annotations: labels})
	}

	return chart.Chart{
		Title:      spec.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: xRange.Min, Max: xRange.Max},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: spec.YRange.Min, Max: spec.YRange.Max},
		},
		Series: series,
	}
}

// continuous converts points into a go-chart series.
// go-chart needs two values per series, so a single point is repeated.
func continuous(name string, points []schema.Point, style chart.Style) chart.ContinuousSeries {
	if len(points) == 1 {
		points = []schema.Point{points[0], points[0]}
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style}
}

// dotsStyle draws points only.
func dotsStyle(s schema.Style) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    s.DotRadius,
		DotColor:    palette[s.Color],
	}
}

// strokeStyle draws a line only.
func strokeStyle(s schema.Style) chart.Style {
	return chart.Style{
		StrokeWidth: s.StrokeWidth,
		StrokeColor: palette[s.Color],
	}
}
