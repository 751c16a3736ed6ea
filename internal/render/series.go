package render

import (
	"errors"
	"html"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/RMahshie/lightspeed/internal/geometry"
	"github.com/RMahshie/lightspeed/internal/hover"
	"github.com/RMahshie/lightspeed/pkg/models"
)

var (
	markerColor    = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	barColor       = drawing.Color{R: 31, G: 119, B: 180, A: 110}
	highlightColor = drawing.Color{R: 214, G: 39, B: 40, A: 255}
	labelColor     = drawing.Color{R: 51, G: 51, B: 51, A: 255}
)

// measurementSeries draws every record as a marker with its error bar and,
// for the hovered record, a highlighted bar and a two-line label. The
// positions it computes are written into frame for hit-testing.
type measurementSeries struct {
	name    string
	records []models.Measurement
	state   hover.State
	opts    Options
	format  Format
	frame   *Frame
}

func (s *measurementSeries) GetName() string { return s.name }

func (s *measurementSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

// GetStyle is also what the legend draws, so it never reflects hover.
func (s *measurementSeries) GetStyle() chart.Style {
	return chart.Style{
		StrokeColor: markerColor,
		StrokeWidth: 2,
		DotColor:    markerColor,
		DotWidth:    s.opts.MarkerRadius,
	}
}

func (s *measurementSeries) Validate() error {
	if len(s.records) == 0 {
		return errors.New("measurement series has no records")
	}
	return nil
}

func (s *measurementSeries) Len() int { return len(s.records) }

func (s *measurementSeries) GetValues(index int) (float64, float64) {
	r := s.records[index]
	return r.Year, r.Value
}

func (s *measurementSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.GetStyle().InheritFrom(defaults)
	plot := geometry.Rect{
		Left:   float64(canvasBox.Left),
		Top:    float64(canvasBox.Top),
		Right:  float64(canvasBox.Right),
		Bottom: float64(canvasBox.Bottom),
	}
	s.frame.Plot = plot

	pxPerUnit := 0.0
	if d := yrange.GetDelta(); d != 0 {
		pxPerUnit = float64(yrange.GetDomain()) / d
	}

	var hovered *geometry.Point
	var hoveredHalf float64
	for _, rec := range s.records {
		p := geometry.Point{
			X: float64(canvasBox.Left + xrange.Translate(rec.Year)),
			Y: float64(canvasBox.Bottom - yrange.Translate(rec.Value)),
		}
		if !plot.Contains(p) {
			continue
		}
		half := rec.Uncertainty * pxPerUnit
		s.frame.Points = append(s.frame.Points, PlacedPoint{Record: rec, At: p})

		if s.state.IsHovered(rec) {
			hp := p
			hovered = &hp
			hoveredHalf = half
			continue
		}
		s.drawErrorBar(r, p, half, plot, barColor, 1)
		s.drawMarker(r, p, s.opts.MarkerRadius, markerColor, markerColor)
	}

	// The hovered point goes last so its overlay sits on top.
	if hovered != nil {
		s.drawErrorBar(r, *hovered, hoveredHalf, plot, highlightColor, 2)
		s.drawMarker(r, *hovered, s.opts.HoverRadius, drawing.ColorTransparent, highlightColor)
		s.drawLabel(r, *hovered, plot, style)
	}
}

func (s *measurementSeries) drawErrorBar(r chart.Renderer, p geometry.Point, half float64, plot geometry.Rect, color drawing.Color, width float64) {
	r.ResetStyle()
	r.SetStrokeColor(color)
	r.SetStrokeWidth(width)
	for _, seg := range geometry.ErrorBarSegments(p, half, s.opts.CapHalfWidth, plot) {
		r.MoveTo(int(seg.From.X), int(seg.From.Y))
		r.LineTo(int(seg.To.X), int(seg.To.Y))
		r.Stroke()
	}
}

func (s *measurementSeries) drawMarker(r chart.Renderer, p geometry.Point, radius float64, fill, stroke drawing.Color) {
	r.ResetStyle()
	r.SetFillColor(fill)
	r.SetStrokeColor(stroke)
	r.SetStrokeWidth(1.5)
	r.Circle(radius, int(p.X), int(p.Y))
}

func (s *measurementSeries) drawLabel(r chart.Renderer, p geometry.Point, plot geometry.Rect, style chart.Style) {
	rec := s.state.Hovered
	label := geometry.PlaceTooltip(p, plot, s.opts.Tooltip)

	r.ResetStyle()
	if font := style.GetFont(); font != nil {
		r.SetFont(font)
	}
	r.SetFontSize(s.opts.LabelFontSize)
	r.SetFontColor(labelColor)

	lines := []struct {
		text string
		y    float64
	}{
		{rec.Observer, label.Y},
		{rec.Method, label.SecondLineY},
	}
	for _, line := range lines {
		x := label.X
		if label.Anchor == geometry.AnchorEnd {
			x -= float64(r.MeasureText(line.text).Width())
		}
		r.Text(s.labelText(line.text), int(x), int(line.y))
	}
}

// labelText escapes text for the SVG writer, which emits it verbatim.
func (s *measurementSeries) labelText(text string) string {
	if s.format == FormatPNG {
		return text
	}
	return html.EscapeString(text)
}
