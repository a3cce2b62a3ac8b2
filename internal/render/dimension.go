package render

import (
	"fmt"
	"math"
)

// Layer names used by the dimensioning helpers.
const (
	LayerDimensions = "dimensions"
	LayerExtensions = "extensions"
	LayerArrows     = "arrows"
	LayerText       = "text"

	arrowSize = 3.0
	extension = 3.0
)

func (d *Document) arrows(a, b Point) {
	angle := math.Atan2(b.Y-a.Y, b.X-a.X)
	d.Line(LayerArrows, a, a.Polar(arrowSize, angle+2.8))
	d.Line(LayerArrows, a, a.Polar(arrowSize, angle-2.8))
	d.Line(LayerArrows, b, b.Polar(-arrowSize, angle+2.8))
	d.Line(LayerArrows, b, b.Polar(-arrowSize, angle-2.8))
}

// VerticalDimension dimensions the vertical extent of a..b at offset mm
// to the right (negative for left).
func (d *Document) VerticalDimension(a, b Point, label string, offset float64) {
	x := a.X + offset
	d.Line(LayerExtensions, a, P(x+math.Copysign(extension, offset), a.Y))
	d.Line(LayerExtensions, b, P(x+math.Copysign(extension, offset), b.Y))
	p1, p2 := P(x, a.Y), P(x, b.Y)
	d.Line(LayerDimensions, p1, p2)
	d.arrows(p1, p2)
	d.Text(LayerExtensions, P(x+math.Copysign(DimensionFont*1.5, offset), (a.Y+b.Y)/2), label, DimensionFont)
}

// HorizontalDimension dimensions the horizontal extent of a..b at offset
// mm above (negative for below).
func (d *Document) HorizontalDimension(a, b Point, label string, offset float64) {
	y := a.Y + offset
	d.Line(LayerExtensions, a, P(a.X, y-math.Copysign(extension, offset)))
	d.Line(LayerExtensions, b, P(b.X, y-math.Copysign(extension, offset)))
	p1, p2 := P(a.X, y), P(b.X, y)
	d.Line(LayerDimensions, p1, p2)
	d.arrows(p1, p2)
	d.Text(LayerExtensions, P((a.X+b.X)/2, y+math.Copysign(DimensionFont, offset)), label, DimensionFont)
}

// DiagonalDimension dimensions the segment a..b, offset perpendicular to it.
func (d *Document) DiagonalDimension(a, b Point, label string, offset float64) {
	angle := math.Atan2(b.Y-a.Y, b.X-a.X)
	n := angle + math.Pi/2
	p1, p2 := a.Polar(offset, n), b.Polar(offset, n)
	d.Line(LayerExtensions, a, a.Polar(offset+extension, n))
	d.Line(LayerExtensions, b, b.Polar(offset+extension, n))
	d.Line(LayerDimensions, p1, p2)
	d.arrows(p1, p2)
	mid := P((p1.X+p2.X)/2, (p1.Y+p2.Y)/2)
	d.Text(LayerExtensions, mid.Polar(DimensionFont*1.5, n), label, DimensionFont)
}

// AngleDimension draws an arc between the rays junction->a and
// junction->b, labelled with label or the measured angle.
func (d *Document) AngleDimension(junction, a, b Point, label string, radius float64) {
	a1 := math.Atan2(a.Y-junction.Y, a.X-junction.X)
	a2 := math.Atan2(b.Y-junction.Y, b.X-junction.X)
	from, to := math.Min(a1, a2), math.Max(a1, a2)
	if to-from > math.Pi {
		from, to = to, from+2*math.Pi
	}
	if label == "" {
		label = fmt.Sprintf("%.1f°", (to-from)*180/math.Pi)
	}
	d.Arc(LayerDimensions, junction, radius, from, to)
	d.Text(LayerExtensions, junction.Polar(radius+DimensionFont*1.5, (from+to)/2), label, DimensionFont)
}
