// Package geometry computes the side-view geometry of a bowed or fretted
// instrument neck from its dimensional parameters. Coordinates are in mm
// with the origin at the top of the ribs where the neck meets the body,
// x towards the bridge and y upwards.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

// Epsilon bounds the determinant below which two lines are treated as
// parallel.
const Epsilon = 1e-10

// Input holds the parameters the geometry depends on.
type Input struct {
	Family registry.Family

	VSL                float64
	BodyStop           float64
	FretJoin           int
	NoFrets            int
	BodyLength         float64
	RibHeight          float64
	FingerboardLength  float64
	ArchingHeight      float64
	BellyEdgeThickness float64
	BridgeHeight       float64
	Overstand          float64
	TailpieceHeight    float64

	FingerboardRadius     float64
	FBVisibleHeightAtNut  float64
	FBVisibleHeightAtJoin float64
	FingerboardWidthAtNut float64
	FingerboardWidthAtEnd float64

	StringHeightNut      float64
	StringHeightEOF      float64
	StringHeight12thFret float64

	BreakAngle     float64
	TopBlockHeight float64
}

// InputFrom reads an Input from a complete value set. Missing numbers
// read as zero.
func InputFrom(reg *registry.Registry, values registry.ValueSet) Input {
	num := func(k registry.Key) float64 {
		v, _ := reg.Value(values, k)
		f, _ := registry.ValueSet{k: v}.Number(k)
		return f
	}
	return Input{
		Family:                reg.ActiveFamily(values),
		VSL:                   num(registry.VSL),
		BodyStop:              num(registry.BodyStop),
		FretJoin:              int(math.Round(num(registry.FretJoin))),
		NoFrets:               int(math.Round(num(registry.NoFrets))),
		BodyLength:            num(registry.BodyLength),
		RibHeight:             num(registry.RibHeight),
		FingerboardLength:     num(registry.FingerboardLength),
		ArchingHeight:         num(registry.ArchingHeight),
		BellyEdgeThickness:    num(registry.BellyEdgeThickness),
		BridgeHeight:          num(registry.BridgeHeight),
		Overstand:             num(registry.Overstand),
		TailpieceHeight:       num(registry.TailpieceHeight),
		FingerboardRadius:     num(registry.FingerboardRadius),
		FBVisibleHeightAtNut:  num(registry.FBVisibleHeightAtNut),
		FBVisibleHeightAtJoin: num(registry.FBVisibleHeightAtJoin),
		FingerboardWidthAtNut: num(registry.FingerboardWidthAtNut),
		FingerboardWidthAtEnd: num(registry.FingerboardWidthAtEnd),
		StringHeightNut:       num(registry.StringHeightNut),
		StringHeightEOF:       num(registry.StringHeightEOF),
		StringHeight12thFret:  num(registry.StringHeight12thFret),
		BreakAngle:            num(registry.BreakAngle),
		TopBlockHeight:        num(registry.TopBlockHeight),
	}
}

// Result is the computed geometry. Angles named *Rad are in radians, all
// other angles in degrees.
type Result struct {
	SagittaAtNut      float64
	SagittaAtJoin     float64
	FBThicknessAtNut  float64
	FBThicknessAtJoin float64

	BodyStop                 float64
	NeckStop                 float64
	StringAngleToRibs        float64
	StringAngleToRibsRad     float64
	StringAngleToFingerboard float64

	NeckAngle     float64
	NeckAngleRad  float64
	NeckEndX      float64
	NeckEndY      float64
	NutDrawRadius float64
	NeckLineAngle float64
	NutTopX       float64
	NutTopY       float64
	BridgeTopX    float64
	BridgeTopY    float64
	StringLength  float64

	FBDirectionAngle float64
	FBBottomEndX     float64
	FBBottomEndY     float64
	FBThicknessAtEnd float64

	NutPerpendicularIntersectionX float64
	NutPerpendicularIntersectionY float64
	NutToPerpendicularDistance    float64
	StringXAtFBEnd                float64
	StringYAtFBEnd                float64
	FBSurfacePointX               float64
	FBSurfacePointY               float64
	StringHeightAtFBEnd           float64

	TailpieceTopX    float64
	TailpieceTopY    float64
	AfterlengthAngle float64
	StringBreakAngle float64

	// BackBreakLength is set for viols with a positive break angle.
	BackBreakLength *float64

	// FretPositions[i] is the distance of fret i from the nut; index 0 is
	// the nut itself.
	FretPositions []float64
}

var ErrUndefined = errors.New("geometry is undefined for these parameters")

// Sagitta returns the height of an arc of the given radius over a chord of
// the given width. A chord wider than the diameter uses the small-angle
// approximation.
func Sagitta(radius, width float64) float64 {
	if radius <= 0 || width <= 0 {
		return 0
	}
	half := width / 2
	if half >= radius {
		return width * width / (8 * radius)
	}
	return radius - math.Sqrt(radius*radius-half*half)
}

// FretPositions returns the distance from the nut of frets 0..n, where
// fret 0 is the nut.
func FretPositions(vsl float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		out[i] = vsl - vsl/math.Pow(2, float64(i)/12)
	}
	return out
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
func rad(deg float64) float64 { return deg * math.Pi / 180 }

// Compute runs the full geometry pipeline.
func Compute(in Input) (Result, error) {
	var r Result

	r.SagittaAtNut = Sagitta(in.FingerboardRadius, in.FingerboardWidthAtNut)
	r.SagittaAtJoin = Sagitta(in.FingerboardRadius, in.FingerboardWidthAtEnd)
	r.FBThicknessAtNut = in.FBVisibleHeightAtNut + r.SagittaAtNut
	r.FBThicknessAtJoin = in.FBVisibleHeightAtJoin + r.SagittaAtJoin

	switch in.Family {
	case registry.FamilyGuitarMandolin:
		if err := stringAnglesFretted(in, &r); err != nil {
			return Result{}, err
		}
	default:
		if err := stringAnglesBowed(in, &r); err != nil {
			return Result{}, err
		}
	}
	if r.NeckStop <= 0 {
		return Result{}, fmt.Errorf("%w: neck stop %.1f mm is not positive", ErrUndefined, r.NeckStop)
	}

	neck(in, &r)
	fingerboard(in, &r)
	stringHeight(in, &r)
	afterlength(in, &r)

	if in.Family == registry.FamilyViol && r.StringBreakAngle > 0 && in.BreakAngle > 0 {
		l := in.TopBlockHeight / math.Tan(rad(in.BreakAngle))
		r.BackBreakLength = &l
	}
	if in.Family != registry.FamilyViolin && r.FretPositions == nil {
		r.FretPositions = FretPositions(in.VSL, in.NoFrets)
	}

	for name, v := range map[string]float64{
		"neck angle":    r.NeckAngle,
		"neck stop":     r.NeckStop,
		"string length": r.StringLength,
		"nut height":    r.NutTopY,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("%w: %s is not finite", ErrUndefined, name)
		}
	}
	return r, nil
}

// stringAnglesBowed derives the neck stop from a given body stop.
func stringAnglesBowed(in Input, r *Result) error {
	if in.BodyStop <= 0 {
		return fmt.Errorf("%w: body stop must be positive", ErrUndefined)
	}
	if in.FingerboardLength <= 0 {
		return fmt.Errorf("%w: fingerboard length must be positive", ErrUndefined)
	}
	heightAtJoin := (in.StringHeightEOF-in.StringHeightNut)*((in.VSL-in.BodyStop)/in.FingerboardLength) + in.StringHeightNut
	opposite := in.ArchingHeight + in.BridgeHeight - in.Overstand - r.FBThicknessAtJoin - heightAtJoin

	r.BodyStop = in.BodyStop
	r.StringAngleToRibsRad = math.Atan(opposite / in.BodyStop)
	r.StringAngleToRibs = deg(r.StringAngleToRibsRad)
	toJoin := math.Hypot(opposite, in.BodyStop)
	r.NeckStop = math.Cos(r.StringAngleToRibsRad) * (in.VSL - toJoin)
	r.StringAngleToFingerboard = deg(math.Atan((in.StringHeightEOF - in.StringHeightNut) / in.FingerboardLength))
	return nil
}

// stringAnglesFretted derives both stops from the fret at the body join.
func stringAnglesFretted(in Input, r *Result) error {
	join := in.FretJoin
	if join <= 0 {
		join = 12
	}
	n := max(in.NoFrets, join, 12)
	r.FretPositions = FretPositions(in.VSL, n)
	atJoin := r.FretPositions[join]

	heightAtJoin := (in.StringHeight12thFret-in.StringHeightNut)*(atJoin/r.FretPositions[12]) + in.StringHeightNut
	hyp := in.VSL - atJoin
	opposite := in.ArchingHeight + in.BridgeHeight - in.Overstand - r.FBThicknessAtJoin - heightAtJoin
	if hyp <= 0 || math.Abs(opposite) > hyp {
		return fmt.Errorf("%w: string cannot reach the bridge (rise %.1f mm over %.1f mm)", ErrUndefined, opposite, hyp)
	}

	r.StringAngleToRibsRad = math.Asin(opposite / hyp)
	r.StringAngleToRibs = deg(r.StringAngleToRibsRad)
	r.NeckStop = math.Cos(r.StringAngleToRibsRad) * atJoin
	r.BodyStop = math.Cos(r.StringAngleToRibsRad) * hyp
	r.StringAngleToFingerboard = deg(math.Atan((heightAtJoin - in.StringHeightNut) / atJoin))
	return nil
}

func neck(in Input, r *Result) {
	r.BridgeTopX = r.BodyStop
	r.BridgeTopY = in.ArchingHeight + in.BridgeHeight
	r.NutTopX = -r.NeckStop
	r.NutTopY = r.BridgeTopY - math.Sin(r.StringAngleToRibsRad)*in.VSL

	fbAngle := deg(math.Atan((r.FBThicknessAtJoin - r.FBThicknessAtNut) / r.NeckStop))
	r.NeckAngle = 90 - (r.StringAngleToRibs - r.StringAngleToFingerboard - fbAngle)
	r.NeckAngleRad = rad(r.NeckAngle)

	r.NeckEndX = -r.NeckStop + math.Cos(r.NeckAngleRad)*r.FBThicknessAtNut
	r.NeckEndY = in.Overstand - r.NeckStop*math.Cos(r.NeckAngleRad)
	r.NutDrawRadius = r.FBThicknessAtNut + in.StringHeightNut
	r.NeckLineAngle = math.Atan2(r.NeckEndY-in.Overstand, r.NeckEndX)
	r.StringLength = math.Hypot(r.BridgeTopX-r.NutTopX, r.BridgeTopY-r.NutTopY)
}

func fingerboard(in Input, r *Result) {
	r.FBDirectionAngle = r.NeckLineAngle + math.Pi
	r.FBBottomEndX = r.NeckEndX + in.FingerboardLength*math.Cos(r.FBDirectionAngle)
	r.FBBottomEndY = r.NeckEndY + in.FingerboardLength*math.Sin(r.FBDirectionAngle)
	r.FBThicknessAtEnd = r.FBThicknessAtNut + (r.FBThicknessAtJoin-r.FBThicknessAtNut)*(in.FingerboardLength/r.NeckStop)
}

// stringHeight finds where the perpendicular from the neck root meets the
// string and how high the string sits above the end of the fingerboard.
func stringHeight(in Input, r *Result) {
	perp := r.FBDirectionAngle + math.Pi/2
	perpX, perpY := math.Cos(perp), math.Sin(perp)
	topRightX := r.FBBottomEndX + r.FBThicknessAtEnd*perpX
	topRightY := r.FBBottomEndY + r.FBThicknessAtEnd*perpY

	neckDX, neckDY := r.NeckEndX, r.NeckEndY-in.Overstand
	pnDX, pnDY := -neckDY, neckDX
	sDX, sDY := r.BridgeTopX-r.NutTopX, r.BridgeTopY-r.NutTopY

	det := sDX*pnDY - sDY*pnDX
	if math.Abs(det) > Epsilon {
		t := ((0-r.NutTopX)*pnDY - (in.Overstand-r.NutTopY)*pnDX) / det
		r.NutPerpendicularIntersectionX = r.NutTopX + t*sDX
		r.NutPerpendicularIntersectionY = r.NutTopY + t*sDY
		r.NutToPerpendicularDistance = math.Hypot(
			r.NutPerpendicularIntersectionX-r.NutTopX,
			r.NutPerpendicularIntersectionY-r.NutTopY,
		)
	}

	fbDX, fbDY := r.FBBottomEndX-r.NeckEndX, r.FBBottomEndY-r.NeckEndY
	var t float64
	switch {
	case sDX != 0:
		t = fbDX / sDX
	case sDY != 0:
		t = fbDY / sDY
	}
	r.StringXAtFBEnd = r.NutTopX + t*sDX
	r.StringYAtFBEnd = r.NutTopY + t*sDY
	r.StringHeightAtFBEnd = (r.StringXAtFBEnd-topRightX)*perpX + (r.StringYAtFBEnd-topRightY)*perpY
	r.FBSurfacePointX = r.StringXAtFBEnd - r.StringHeightAtFBEnd*perpX
	r.FBSurfacePointY = r.StringYAtFBEnd - r.StringHeightAtFBEnd*perpY
}

// afterlength measures the string behind the bridge down to the tailpiece
// at the end of the body, and the angle the string turns over the bridge.
func afterlength(in Input, r *Result) {
	r.TailpieceTopX = in.BodyLength
	r.TailpieceTopY = in.BellyEdgeThickness + in.TailpieceHeight
	run := in.BodyLength - r.BodyStop
	if run <= 0 {
		r.AfterlengthAngle = math.NaN()
		r.StringBreakAngle = math.NaN()
		return
	}
	r.AfterlengthAngle = deg(math.Atan2(r.BridgeTopY-r.TailpieceTopY, run))
	r.StringBreakAngle = 180 - r.StringAngleToRibs - r.AfterlengthAngle
}
