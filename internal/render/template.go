package render

import (
	"fmt"
	"math"
	"strings"
)

const (
	templateWidthMargin = 10.0
	templateFlatHeight  = 25.0
	templateArcPoints   = 50
	templateSVGMargin   = 5.0
)

// RadiusTemplate draws a printable gauge for checking the fingerboard
// radius: a plate 10 mm wider than the fingerboard end with the arc cut
// into one long edge and the radius written on the flat area.
func RadiusTemplate(radius, widthAtEnd float64) (string, error) {
	width := widthAtEnd + templateWidthMargin
	half := width / 2
	if half >= radius {
		return "", fmt.Errorf("Fingerboard radius (%.1fmm) must be larger than half the template width (%.1fmm). "+
			"Increase fingerboard_radius or decrease fingerboard_width_at_end.", radius, half)
	}
	depth := radius - math.Sqrt(radius*radius-half*half)
	height := depth + templateFlatHeight

	pts := []Point{P(-half, height), P(half, height), P(half, 0)}
	centerY := -math.Sqrt(radius*radius - half*half)
	right := math.Atan2(-centerY, half)
	left := math.Atan2(-centerY, -half)
	for i := 0; i <= templateArcPoints; i++ {
		a := right + (left-right)*float64(i)/templateArcPoints
		pts = append(pts, P(radius*math.Cos(a), centerY+radius*math.Sin(a)))
	}
	pts = append(pts, P(-half, 0))

	var path strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&path, "M %s,%s", num(p.X), num(-p.Y))
			continue
		}
		fmt.Fprintf(&path, " L %s,%s", num(p.X), num(-p.Y))
	}
	path.WriteString(" Z")

	label := fmt.Sprintf("%.0fmm", radius)
	charH := templateFlatHeight * 0.4
	minX, minY := -half-templateSVGMargin, -height-templateSVGMargin
	w, h := width+2*templateSVGMargin, height+2*templateSVGMargin

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%smm" height="%smm">`,
		num(minX), num(minY), num(w), num(h), num(w), num(h))
	fmt.Fprintf(&b, "\n"+`<path fill="black" stroke="black" stroke-width="0.5" fill-rule="evenodd" d="%s"/>`, path.String())
	fmt.Fprintf(&b, "\n"+`<text x="0" y="%s" font-family="%s" font-size="%s" fill="white" text-anchor="middle">%s</text>`,
		num(-height+charH+charH*0.3), fontFamily, num(charH), label)
	b.WriteString("\n</svg>")
	return b.String(), nil
}
