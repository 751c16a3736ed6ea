// Package geometry holds the screen-space helpers used when drawing
// measurement overlays: clamped error bars and hover label placement.
// Coordinates are pixels with y growing downward.
package geometry

// Point is a screen position.
type Point struct {
	X, Y float64
}

// Rect is the visible plot area.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// SegmentKind identifies the part of an error bar a segment draws.
type SegmentKind int

const (
	Stem SegmentKind = iota
	TopCap
	BottomCap
)

func (k SegmentKind) String() string {
	switch k {
	case Stem:
		return "stem"
	case TopCap:
		return "top-cap"
	case BottomCap:
		return "bottom-cap"
	default:
		return "unknown"
	}
}

// Segment is a straight line between two points.
type Segment struct {
	Kind     SegmentKind
	From, To Point
}

// ErrorBarSegments returns the stem and caps of an error bar centred on p.
// halfHeight is the uncertainty in pixels. A cap that would land outside
// plot is dropped and the stem is cut at the plot edge instead. With a
// zero halfHeight only the (degenerate) stem is returned.
func ErrorBarSegments(p Point, halfHeight, capHalfWidth float64, plot Rect) []Segment {
	if halfHeight < 0 {
		halfHeight = -halfHeight
	}
	top := p.Y - halfHeight
	bottom := p.Y + halfHeight

	segs := make([]Segment, 0, 3)

	stemTop, stemBottom := top, bottom
	drawTop := halfHeight > 0 && top >= plot.Top
	drawBottom := halfHeight > 0 && bottom <= plot.Bottom
	if top < plot.Top {
		stemTop = plot.Top
	}
	if bottom > plot.Bottom {
		stemBottom = plot.Bottom
	}

	segs = append(segs, Segment{Kind: Stem, From: Point{p.X, stemTop}, To: Point{p.X, stemBottom}})
	if drawTop {
		segs = append(segs, Segment{Kind: TopCap, From: Point{p.X - capHalfWidth, top}, To: Point{p.X + capHalfWidth, top}})
	}
	if drawBottom {
		segs = append(segs, Segment{Kind: BottomCap, From: Point{p.X - capHalfWidth, bottom}, To: Point{p.X + capHalfWidth, bottom}})
	}
	return segs
}

// HasSegment reports whether segs contains a segment of the given kind.
func HasSegment(segs []Segment, kind SegmentKind) bool {
	for _, s := range segs {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// Anchor is the horizontal text anchor of a label.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorEnd
)

// TooltipOptions tunes hover label placement.
type TooltipOptions struct {
	OffsetX     float64 // horizontal gap between point and label
	OffsetY     float64 // vertical gap between point and first baseline
	RightMargin float64 // labels starting closer than this to the right edge flip left
	BelowMargin float64 // extra gap when the label is moved under the point
	LineSpacing float64 // distance between the two text baselines
}

// DefaultTooltipOptions returns the placement used by the chart.
func DefaultTooltipOptions() TooltipOptions {
	return TooltipOptions{
		OffsetX:     10,
		OffsetY:     12,
		RightMargin: 140,
		BelowMargin: 6,
		LineSpacing: 14,
	}
}

// Label is a resolved two-line tooltip position. X is the anchor x and Y
// the first baseline.
type Label struct {
	X, Y        float64
	SecondLineY float64
	Anchor      Anchor
	FlippedLeft bool
	FlippedDown bool
}

// PlaceTooltip positions the hover label for p. The label goes up and to
// the right of the point unless that collides with the right margin or
// the top edge of plot, in which case it moves left or below.
func PlaceTooltip(p Point, plot Rect, opts TooltipOptions) Label {
	l := Label{X: p.X + opts.OffsetX, Y: p.Y - opts.OffsetY, Anchor: AnchorStart}

	if l.X > plot.Right-opts.RightMargin {
		l.X = p.X - opts.OffsetX
		l.Anchor = AnchorEnd
		l.FlippedLeft = true
	}
	if l.Y < plot.Top {
		l.Y = p.Y + opts.OffsetY + opts.BelowMargin
		l.FlippedDown = true
	}
	l.SecondLineY = l.Y + opts.LineSpacing
	return l
}
