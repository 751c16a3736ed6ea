// Package render draws the measurement scatter chart with go-chart.
package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/RMahshie/lightspeed/internal/geometry"
	"github.com/RMahshie/lightspeed/internal/hover"
	"github.com/RMahshie/lightspeed/pkg/models"
)

// Format is an output image format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, "":
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	if f == FormatPNG {
		return "png"
	}
	return "svg"
}

// Options controls chart size and overlay drawing.
type Options struct {
	Width  int
	Height int
	Title  string

	// YMin and YMax pin the value axis when YMax > YMin; otherwise the
	// axis spans the data.
	YMin float64
	YMax float64

	MarkerRadius  float64
	HoverRadius   float64
	CapHalfWidth  float64
	LabelFontSize float64
	Tooltip       geometry.TooltipOptions
}

// DefaultOptions returns the standard chart layout.
func DefaultOptions() Options {
	return Options{
		Width:         960,
		Height:        540,
		Title:         "Measurements of the speed of light",
		MarkerRadius:  3.5,
		HoverRadius:   2.5,
		CapHalfWidth:  4,
		LabelFontSize: 10,
		Tooltip:       geometry.DefaultTooltipOptions(),
	}
}

// PlacedPoint is a record and where its marker was drawn.
type PlacedPoint struct {
	Record models.Measurement
	At     geometry.Point
}

// Frame describes the layout of one rendering.
type Frame struct {
	Plot   geometry.Rect
	Points []PlacedPoint
}

// HitTest returns the record whose marker is nearest to p within radius.
func (f *Frame) HitTest(p geometry.Point, radius float64) (models.Measurement, bool) {
	if f == nil {
		return models.Measurement{}, false
	}
	best := -1
	bestD := radius * radius
	for i, pp := range f.Points {
		dx, dy := pp.At.X-p.X, pp.At.Y-p.Y
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return models.Measurement{}, false
	}
	return f.Points[best].Record, true
}

// Renderer renders a fixed set of records for any hover state.
type Renderer struct {
	records []models.Measurement
	opts    Options
	x, y    [2]float64
}

// New returns a Renderer for records.
func New(records []models.Measurement, opts Options) *Renderer {
	x, y := Bounds(records)
	if opts.YMax > opts.YMin {
		y = [2]float64{opts.YMin, opts.YMax}
	}
	return &Renderer{
		records: records,
		opts:    opts,
		x:       x,
		y:       y,
	}
}

// Bounds returns the [min, max] extent of years and values. Degenerate
// extents are widened by one unit each way so the axes stay drawable.
func Bounds(records []models.Measurement) (x, y [2]float64) {
	x = [2]float64{math.Inf(1), math.Inf(-1)}
	y = x
	for _, r := range records {
		x[0], x[1] = math.Min(x[0], r.Year), math.Max(x[1], r.Year)
		y[0], y[1] = math.Min(y[0], r.Value), math.Max(y[1], r.Value)
	}
	return widen(x), widen(y)
}

func widen(b [2]float64) [2]float64 {
	if math.IsInf(b[0], 0) || math.IsInf(b[1], 0) {
		return [2]float64{-1, 1}
	}
	if b[0] == b[1] {
		return [2]float64{b[0] - 1, b[1] + 1}
	}
	return b
}

// Render writes the chart for state to w and returns its layout.
func (r *Renderer) Render(w io.Writer, format Format, state hover.State) (*Frame, error) {
	frame := &Frame{}
	series := &measurementSeries{
		name:    "Measurements",
		records: r.records,
		state:   state,
		opts:    r.opts,
		format:  format,
		frame:   frame,
	}

	ch := chart.Chart{
		Title:      r.opts.Title,
		Width:      r.opts.Width,
		Height:     r.opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Year",
			Range:          &chart.ContinuousRange{Min: r.x[0], Max: r.x[1]},
			ValueFormatter: formatWhole,
		},
		YAxis: chart.YAxis{
			Name:           "Speed of light (km/s)",
			Range:          &chart.ContinuousRange{Min: r.y[0], Max: r.y[1]},
			ValueFormatter: formatWhole,
		},
		Series: []chart.Series{series},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.SVG
	if format == FormatPNG {
		provider = chart.PNG
	}
	if err := ch.Render(provider, w); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return frame, nil
}

// RenderBytes is Render into a buffer.
func (r *Renderer) RenderBytes(format Format, state hover.State) ([]byte, *Frame, error) {
	var buf bytes.Buffer
	frame, err := r.Render(&buf, format, state)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), frame, nil
}

func formatWhole(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}
