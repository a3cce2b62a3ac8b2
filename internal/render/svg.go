// Package render turns computed geometry into display artifacts: SVG
// diagrams and HTML tables.
package render

import (
	"fmt"
	"html"
	"math"
	"strings"
)

// Font sizes in mm.
const (
	ptMM           = 0.352778
	DimensionFont  = 8 * ptMM
	TitleFont      = 14 * ptMM
	FooterFont     = 6 * ptMM
	fontFamily     = "Roboto, Arial, sans-serif"
	defaultMargin  = 20.0
	defaultLineMM  = 0.5
	hatchPatternID = "diagonalHatch"
)

// LineType is the dash style of a layer.
type LineType int

const (
	Continuous LineType = iota
	Dashed
	Dotted
	Hidden
)

func (t LineType) dash() string {
	switch t {
	case Dashed:
		return ` stroke-dasharray="5,3"`
	case Dotted:
		return ` stroke-dasharray="1,2"`
	case Hidden:
		return ` stroke-dasharray="2,2"`
	default:
		return ""
	}
}

// Layer styles every shape added to it. An empty Stroke and Fill hides
// the layer.
type Layer struct {
	Name   string
	Stroke string
	Fill   string
	Line   LineType
}

func (l Layer) invisible() bool { return l.Stroke == "" && l.Fill == "" }

// Point is a coordinate in mm, y up.
type Point struct{ X, Y float64 }

func P(x, y float64) Point { return Point{x, y} }

// Polar returns the point at distance d from p in direction angle (rad).
func (p Point) Polar(d, angle float64) Point {
	return Point{p.X + d*math.Cos(angle), p.Y + d*math.Sin(angle)}
}

type shape interface {
	points() []Point
	svg(l Layer, lineWidth float64) string
}

type polyline struct {
	pts    []Point
	closed bool
	hatch  bool
}

func (s polyline) points() []Point { return s.pts }

func (s polyline) svg(l Layer, lineWidth float64) string {
	var d strings.Builder
	for i, p := range s.pts {
		if i == 0 {
			fmt.Fprintf(&d, "M %s %s", num(p.X), num(p.Y))
			continue
		}
		fmt.Fprintf(&d, " L %s %s", num(p.X), num(p.Y))
	}
	if s.closed {
		d.WriteString(" Z")
	}
	stroke := l.Stroke
	if stroke == "" {
		stroke = "none"
	}
	fill := "none"
	if s.hatch {
		fill = "url(#" + hatchPatternID + ")"
	}
	return fmt.Sprintf(`<path d="%s" stroke="%s" stroke-width="%s" fill="%s"%s/>`,
		d.String(), stroke, num(lineWidth), fill, l.Line.dash())
}

type text struct {
	at     Point
	s      string
	size   float64
	anchor string
}

func (t text) points() []Point {
	w := float64(len([]rune(t.s))) * t.size * 0.6
	return []Point{{t.at.X - w/2, t.at.Y - t.size/2}, {t.at.X + w/2, t.at.Y + t.size/2}}
}

func (t text) svg(l Layer, _ float64) string {
	color := l.Fill
	if color == "" {
		color = l.Stroke
	}
	anchor := t.anchor
	if anchor == "" {
		anchor = "middle"
	}
	// The drawing group is flipped; flip the glyphs back upright.
	return fmt.Sprintf(`<text x="%s" y="%s" transform="scale(1,-1)" font-family="%s" font-size="%s" fill="%s" text-anchor="%s" dominant-baseline="middle">%s</text>`,
		num(t.at.X), num(-t.at.Y), fontFamily, num(t.size), color, anchor, html.EscapeString(t.s))
}

// Document collects layered shapes and writes them as an SVG with a y-up
// coordinate system and a viewBox fitted to the content.
type Document struct {
	Margin    float64
	LineWidth float64

	layers map[string]Layer
	order  []string
	shapes []placed
}

type placed struct {
	layer string
	s     shape
}

func NewDocument() *Document {
	return &Document{Margin: defaultMargin, LineWidth: defaultLineMM, layers: map[string]Layer{}}
}

func (d *Document) AddLayer(l Layer) {
	if _, ok := d.layers[l.Name]; !ok {
		d.order = append(d.order, l.Name)
	}
	d.layers[l.Name] = l
}

func (d *Document) add(layer string, s shape) { d.shapes = append(d.shapes, placed{layer, s}) }

func (d *Document) Line(layer string, a, b Point) { d.add(layer, polyline{pts: []Point{a, b}}) }

func (d *Document) Polyline(layer string, pts ...Point) {
	d.add(layer, polyline{pts: append([]Point(nil), pts...)})
}

func (d *Document) Polygon(layer string, hatch bool, pts ...Point) {
	d.add(layer, polyline{pts: append([]Point(nil), pts...), closed: true, hatch: hatch})
}

// Arc approximates a circular arc with line segments.
func (d *Document) Arc(layer string, center Point, radius, from, to float64) {
	const segments = 24
	pts := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := from + (to-from)*float64(i)/segments
		pts = append(pts, center.Polar(radius, a))
	}
	d.add(layer, polyline{pts: pts})
}

func (d *Document) Text(layer string, at Point, s string, size float64) {
	d.add(layer, text{at: at, s: s, size: size})
}

// Len returns the number of shapes, including those on hidden layers.
func (d *Document) Len() int { return len(d.shapes) }

func (d *Document) visible(p placed) bool {
	l, ok := d.layers[p.layer]
	return !ok || !l.invisible()
}

// Bounds returns the extent of every visible shape, without margin.
func (d *Document) Bounds() (min, max Point) {
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, p := range d.shapes {
		if !d.visible(p) {
			continue
		}
		for _, pt := range p.s.points() {
			min.X, min.Y = math.Min(min.X, pt.X), math.Min(min.Y, pt.Y)
			max.X, max.Y = math.Max(max.X, pt.X), math.Max(max.Y, pt.Y)
		}
	}
	if math.IsInf(min.X, 1) {
		return Point{}, Point{}
	}
	return min, max
}

// String renders the document.
func (d *Document) String() string {
	lo, hi := d.Bounds()
	lo.X, lo.Y = lo.X-d.Margin, lo.Y-d.Margin
	hi.X, hi.Y = hi.X+d.Margin, hi.Y+d.Margin
	w, h := hi.X-lo.X, hi.Y-lo.Y

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%smm" height="%smm">`,
		num(lo.X), num(-hi.Y), num(w), num(h), num(w), num(h))
	b.WriteString("\n<defs><pattern id=\"" + hatchPatternID + "\" patternUnits=\"userSpaceOnUse\" width=\"2\" height=\"2\">" +
		"<path d=\"M0,2 L2,0\" stroke=\"black\" stroke-width=\"0.3\"/></pattern></defs>\n")
	b.WriteString(`<g transform="scale(1,-1)">`)
	for _, name := range d.order {
		l := d.layers[name]
		if l.invisible() {
			continue
		}
		fmt.Fprintf(&b, "\n<g id=\"%s\">", html.EscapeString(name))
		for _, p := range d.shapes {
			if p.layer == name {
				b.WriteString("\n")
				b.WriteString(p.s.svg(l, d.LineWidth))
			}
		}
		b.WriteString("\n</g>")
	}
	for _, p := range d.shapes {
		if _, ok := d.layers[p.layer]; !ok {
			b.WriteString("\n")
			b.WriteString(p.s.svg(Layer{Stroke: "black", Fill: "black"}, d.LineWidth))
		}
	}
	b.WriteString("\n</g>\n</svg>")
	return b.String()
}

func num(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
