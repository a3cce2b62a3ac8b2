package render

import (
	"fmt"
	"math"

	"github.com/idlab-discover/neckgen-cli/internal/geometry"
)

const (
	LayerDrawing         = "drawing"
	LayerSchematic       = "schematic"
	LayerSchematicDotted = "schematic_dotted"
)

// Options control annotation of the diagrams.
type Options struct {
	Title            string
	Footer           string
	ShowMeasurements bool
}

func sideLayers(show bool) *Document {
	d := NewDocument()
	dim := ""
	if show {
		dim = "rgb(255,0,0)"
	}
	d.AddLayer(Layer{Name: LayerDrawing, Stroke: "rgb(0,0,0)"})
	d.AddLayer(Layer{Name: LayerSchematic, Stroke: "rgb(0,0,0)", Line: Dashed})
	d.AddLayer(Layer{Name: LayerSchematicDotted, Stroke: "rgb(100,100,100)", Line: Dotted})
	d.AddLayer(Layer{Name: LayerDimensions, Stroke: dim, Fill: dim, Line: Dashed})
	d.AddLayer(Layer{Name: LayerExtensions, Stroke: dim, Fill: dim})
	d.AddLayer(Layer{Name: LayerArrows, Stroke: dim, Fill: dim})
	d.AddLayer(Layer{Name: LayerText, Fill: "rgb(0,0,255)"})
	return d
}

// SideView draws the body, neck, fingerboard and string in profile.
func SideView(in geometry.Input, g geometry.Result, opt Options) string {
	d := sideLayers(opt.ShowMeasurements)

	// Body: belly edge, ribs and the arching curve.
	belly, ribBottom := in.BellyEdgeThickness, in.BellyEdgeThickness-in.RibHeight
	d.Polygon(LayerDrawing, false, P(0, 0), P(in.BodyLength, 0), P(in.BodyLength, belly), P(0, belly))
	d.Polygon(LayerDrawing, false, P(0, belly), P(in.BodyLength, belly), P(in.BodyLength, ribBottom), P(0, ribBottom))
	d.Polyline(LayerSchematic, arch(P(0, belly), P(g.BodyStop, in.ArchingHeight), P(in.BodyLength, belly))...)

	// Neck and bridge.
	bridgeFoot := P(g.BodyStop, in.ArchingHeight)
	bridgeTop := P(g.BridgeTopX, g.BridgeTopY)
	neckRoot := P(0, in.Overstand)
	neckEnd := P(g.NeckEndX, g.NeckEndY)
	d.Line(LayerDrawing, bridgeFoot, bridgeTop)
	d.Line(LayerDrawing, P(0, 0), neckRoot)
	d.Line(LayerDrawing, neckRoot, neckEnd)

	start := g.NeckLineAngle - math.Pi/2
	d.Arc(LayerSchematicDotted, neckEnd, g.NutDrawRadius, start, start+math.Pi/2)
	d.Line(LayerSchematicDotted, neckEnd, neckEnd.Polar(g.NutDrawRadius, start))
	d.Line(LayerSchematicDotted, neckEnd, neckEnd.Polar(g.NutDrawRadius, start+math.Pi/2))
	d.AngleDimension(neckRoot, P(0, 0), neckEnd, fmt.Sprintf("%.1f°", g.NeckAngle), 15)

	// Fingerboard: hatched visible side plus the radiused top.
	perp := g.FBDirectionAngle + math.Pi/2
	fbEnd := P(g.FBBottomEndX, g.FBBottomEndY)
	visNut := neckEnd.Polar(in.FBVisibleHeightAtNut, perp)
	visEnd := fbEnd.Polar(in.FBVisibleHeightAtJoin, perp)
	topNut := neckEnd.Polar(g.FBThicknessAtNut, perp)
	topEnd := fbEnd.Polar(g.FBThicknessAtEnd, perp)
	d.Polygon(LayerDrawing, true, neckEnd, fbEnd, visEnd, visNut)
	d.Line(LayerDrawing, visNut, topNut)
	d.Line(LayerDrawing, visEnd, topEnd)
	d.Line(LayerDrawing, topNut, topEnd)

	// String, rib reference line and afterlength to the tailpiece.
	nutTop := P(g.NutTopX, g.NutTopY)
	refEnd := g.NutTopX - 20
	d.Line(LayerExtensions, P(0, 0), P(refEnd, 0))
	d.Line(LayerDrawing, nutTop, bridgeTop)
	tail := P(g.TailpieceTopX, g.TailpieceTopY)
	d.Line(LayerSchematicDotted, tail, bridgeTop)

	d.Text(LayerText, P(in.BodyLength/2, g.BridgeTopY+25), opt.Title, TitleFont)
	if opt.Footer != "" {
		d.Text(LayerText, P(g.NeckEndX, ribBottom-35), opt.Footer, FooterFont)
	}

	d.DiagonalDimension(nutTop, bridgeTop, fmt.Sprintf("%.1f", g.StringLength), 10)
	if opt.ShowMeasurements {
		d.VerticalDimension(P(refEnd, 0), P(refEnd, g.NutTopY), fmt.Sprintf("%.1f", g.NutTopY), -8)
	}
	if g.NutToPerpendicularDistance > 0 {
		d.DiagonalDimension(nutTop, P(g.NutPerpendicularIntersectionX, g.NutPerpendicularIntersectionY),
			fmt.Sprintf("%.1f", g.NutToPerpendicularDistance), 20)
	}
	d.VerticalDimension(P(g.FBSurfacePointX, g.FBSurfacePointY), P(g.StringXAtFBEnd, g.StringYAtFBEnd),
		fmt.Sprintf("%.1f", g.StringHeightAtFBEnd), 8)
	d.HorizontalDimension(neckEnd, P(0, g.NeckEndY), fmt.Sprintf("%.1f", math.Abs(g.NeckEndX)), -10)
	if in.Overstand > 0 {
		d.VerticalDimension(P(0, 0), neckRoot, fmt.Sprintf("%.1f", in.Overstand), 8)
	}
	d.VerticalDimension(P(g.BodyStop, 0), bridgeFoot, fmt.Sprintf("%.1f", in.ArchingHeight), 8)
	d.HorizontalDimension(P(0, ribBottom), P(g.BodyStop, ribBottom), fmt.Sprintf("%.1f", g.BodyStop), -15)
	d.HorizontalDimension(P(0, ribBottom), P(in.BodyLength, ribBottom), fmt.Sprintf("%.1f", in.BodyLength), -30)
	d.VerticalDimension(P(in.BodyLength, belly), P(in.BodyLength, ribBottom), fmt.Sprintf("%.1f", in.RibHeight), 10)
	if g.StringBreakAngle > 0 {
		d.AngleDimension(bridgeTop, nutTop, tail, fmt.Sprintf("%.1f°", g.StringBreakAngle), 20)
	}
	if in.TailpieceHeight > 0 {
		d.Line(LayerSchematicDotted, P(in.BodyLength, belly), tail)
		d.VerticalDimension(P(in.BodyLength, belly), tail, fmt.Sprintf("%.1f", in.TailpieceHeight), 20)
	}
	return d.String()
}

// arch samples the quadratic through three points used for the belly
// arching.
func arch(p0, p1, p2 Point) []Point {
	// Control point so that the curve passes through p1 at t=0.5.
	c := P(2*p1.X-(p0.X+p2.X)/2, 2*p1.Y-(p0.Y+p2.Y)/2)
	const n = 32
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / n
		mt := 1 - t
		pts = append(pts, P(
			mt*mt*p0.X+2*mt*t*c.X+t*t*p2.X,
			mt*mt*p0.Y+2*mt*t*c.Y+t*t*p2.Y,
		))
	}
	return pts
}
