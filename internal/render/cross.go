package render

import (
	"fmt"
	"math"

	"github.com/idlab-discover/neckgen-cli/internal/geometry"
)

// CrossSection draws the fingerboard profile at the nut and at its bridge
// end: the flat visible sides topped by the radiused playing surface.
func CrossSection(in geometry.Input, g geometry.Result, opt Options) string {
	d := sideLayers(opt.ShowMeasurements)

	nutW, endW := in.FingerboardWidthAtNut, in.FingerboardWidthAtEnd
	gap := math.Max(nutW, endW) + 30
	profile(d, 0, nutW, in.FBVisibleHeightAtNut, in.FingerboardRadius, g.SagittaAtNut)
	profile(d, gap, endW, in.FBVisibleHeightAtJoin, in.FingerboardRadius, g.SagittaAtJoin)

	d.Text(LayerText, P(0, -8), "At nut", DimensionFont*1.2)
	d.Text(LayerText, P(gap, -8), "At end", DimensionFont*1.2)
	top := math.Max(in.FBVisibleHeightAtNut+g.SagittaAtNut, in.FBVisibleHeightAtJoin+g.SagittaAtJoin)
	title := "Cross-Section"
	if opt.Title != "" {
		title = opt.Title + " Cross-Section"
	}
	d.Text(LayerText, P(gap/2, top+20), title, TitleFont)

	d.HorizontalDimension(P(-nutW/2, 0), P(nutW/2, 0), fmt.Sprintf("%.1f", nutW), -15)
	d.HorizontalDimension(P(gap-endW/2, 0), P(gap+endW/2, 0), fmt.Sprintf("%.1f", endW), -15)
	d.VerticalDimension(P(nutW/2, 0), P(nutW/2, in.FBVisibleHeightAtNut+g.SagittaAtNut),
		fmt.Sprintf("%.1f", g.FBThicknessAtNut), 8)
	d.VerticalDimension(P(gap+endW/2, 0), P(gap+endW/2, in.FBVisibleHeightAtJoin+g.SagittaAtJoin),
		fmt.Sprintf("%.1f", g.FBThicknessAtJoin), 8)
	d.Text(LayerExtensions, P(gap/2, top+8), fmt.Sprintf("R %.0f", in.FingerboardRadius), DimensionFont)
	return d.String()
}

// profile draws one fingerboard section centred on cx with its underside
// on y=0.
func profile(d *Document, cx, width, visible, radius, sagitta float64) {
	half := width / 2
	left, right := P(cx-half, visible), P(cx+half, visible)
	d.Polygon(LayerDrawing, true, P(cx-half, 0), P(cx+half, 0), right, left)

	if radius <= 0 || half >= radius {
		d.Line(LayerDrawing, left, right)
		return
	}
	center := P(cx, visible+sagitta-radius)
	span := math.Asin(half / radius)
	d.Arc(LayerDrawing, center, radius, math.Pi/2-span, math.Pi/2+span)
	d.Line(LayerSchematic, P(cx, visible), P(cx, visible+sagitta))
}
