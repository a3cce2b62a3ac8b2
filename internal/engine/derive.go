package engine

import (
	"math"

	"github.com/idlab-discover/neckgen-cli/internal/geometry"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/visibility"
)

// geometryValues maps every calculated registry key to its value in g.
func geometryValues(g geometry.Result) map[registry.Key]float64 {
	back := math.NaN()
	if g.BackBreakLength != nil {
		back = *g.BackBreakLength
	}
	return map[registry.Key]float64{
		registry.BodyStop:                      g.BodyStop,
		registry.NeckStop:                      g.NeckStop,
		registry.NeckAngle:                     g.NeckAngle,
		registry.StringLength:                  g.StringLength,
		registry.StringAngleToRibs:             g.StringAngleToRibs,
		registry.StringAngleToFingerboard:      g.StringAngleToFingerboard,
		registry.NutRelativeToRibs:             g.NutTopY,
		registry.AfterlengthAngle:              g.AfterlengthAngle,
		registry.StringBreakAngle:              g.StringBreakAngle,
		registry.BackBreakLength:               back,
		registry.SagittaAtNut:                  g.SagittaAtNut,
		registry.SagittaAtJoin:                 g.SagittaAtJoin,
		registry.FBThicknessAtNut:              g.FBThicknessAtNut,
		registry.FBThicknessAtJoin:             g.FBThicknessAtJoin,
		registry.NeckAngleRad:                  g.NeckAngleRad,
		registry.NeckEndX:                      g.NeckEndX,
		registry.NeckEndY:                      g.NeckEndY,
		registry.NutDrawRadius:                 g.NutDrawRadius,
		registry.NeckLineAngle:                 g.NeckLineAngle,
		registry.NutTopX:                       g.NutTopX,
		registry.NutTopY:                       g.NutTopY,
		registry.BridgeTopX:                    g.BridgeTopX,
		registry.BridgeTopY:                    g.BridgeTopY,
		registry.FBBottomEndX:                  g.FBBottomEndX,
		registry.FBBottomEndY:                  g.FBBottomEndY,
		registry.FBDirectionAngle:              g.FBDirectionAngle,
		registry.FBThicknessAtEnd:              g.FBThicknessAtEnd,
		registry.FBSurfacePointX:               g.FBSurfacePointX,
		registry.FBSurfacePointY:               g.FBSurfacePointY,
		registry.StringXAtFBEnd:                g.StringXAtFBEnd,
		registry.StringYAtFBEnd:                g.StringYAtFBEnd,
		registry.StringHeightAtFBEnd:           g.StringHeightAtFBEnd,
		registry.NutPerpendicularIntersectionX: g.NutPerpendicularIntersectionX,
		registry.NutPerpendicularIntersectionY: g.NutPerpendicularIntersectionY,
		registry.NutToPerpendicularDistance:    g.NutToPerpendicularDistance,
	}
}

// Derive builds the derived value table for every parameter the registry
// marks as calculable. A value is visible only when its metadata says so
// and the parameter is shown for values.
func Derive(reg *registry.Registry, values registry.ValueSet, g geometry.Result) map[registry.Key]DerivedValue {
	gv := geometryValues(g)
	out := make(map[registry.Key]DerivedValue, len(gv))
	for _, d := range reg.Outputs() {
		v, ok := gv[d.Key]
		if !ok {
			continue
		}
		dv := NewDerivedValue(d, v)
		dv.Visible = dv.Visible && visibility.IsVisible(reg, d, values)
		out[d.Key] = dv
	}
	return out
}

// CoreMetrics is the cheap path run on every edit: the headline
// measurements computed without rendering. Values are missing when the
// parameters are invalid or the geometry is undefined.
func CoreMetrics(reg *registry.Registry, values registry.ValueSet) map[registry.Key]DerivedValue {
	keys := []registry.Key{registry.NeckStop, registry.BodyStop}
	for _, m := range reg.KeyMeasurements() {
		keys = append(keys, m.Key)
		for _, k := range m.ByFamily {
			keys = append(keys, k)
		}
	}

	var gv map[registry.Key]float64
	if len(visibility.New(reg).Validate(values)) == 0 {
		if g, err := geometry.Compute(geometry.InputFrom(reg, values)); err == nil {
			gv = geometryValues(g)
		}
	}
	out := make(map[registry.Key]DerivedValue, len(keys))
	for _, k := range keys {
		d, ok := reg.Lookup(k)
		if !ok {
			continue
		}
		v, ok := gv[k]
		if !ok {
			v = math.NaN()
		}
		out[k] = NewDerivedValue(d, v)
	}
	return out
}
