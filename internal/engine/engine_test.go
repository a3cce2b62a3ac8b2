package engine

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

func calc(t *testing.T, values registry.ValueSet) *Result {
	t.Helper()
	res, err := NewLocal(registry.Default()).Calculate(context.Background(), Request{Parameters: values, Context: "neckgen-cli test"})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	return res
}

func TestLocal_DefaultsSucceed(t *testing.T) {
	res := calc(t, registry.Default().Defaults())
	if !res.Success {
		t.Fatalf("expected success, errors: %v", res.Errors)
	}
	for _, v := range Views() {
		if res.Views[v] == "" {
			t.Fatalf("missing view %s", v)
		}
	}
	if !strings.Contains(res.Views[ViewSide], "neckgen-cli test") {
		t.Fatalf("footer context missing from side view")
	}
	if !strings.Contains(res.Views[ViewFretPositions], "not applicable") {
		t.Fatalf("violin should have no fret table")
	}
	angle := res.DerivedValues[registry.NeckAngle]
	if angle.Value == nil || math.Abs(*angle.Value-84.8) > 0.3 {
		t.Fatalf("neck angle = %+v", angle)
	}
	if angle.Format() != "84.8°" {
		t.Fatalf("neck angle formatted as %q", angle.Format())
	}
	if res.DerivedValues[registry.BackBreakLength].Visible {
		t.Fatalf("back break length should be hidden for violins")
	}
}

func TestLocal_ValidationFailure(t *testing.T) {
	values := registry.Default().Defaults()
	values[registry.VSL] = 5.0
	res := calc(t, values)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "Vibrating String Length must be at least 10 mm" {
		t.Fatalf("errors = %v", res.Errors)
	}
	if res.Views != nil || res.DerivedValues != nil {
		t.Fatalf("failed result should carry no outputs")
	}
}

func TestLocal_GeometryFailure(t *testing.T) {
	values := registry.Default().Defaults()
	values[registry.BodyStop] = 400.0
	res := calc(t, values)
	if res.Success || len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "Geometry generation failed: ") {
		t.Fatalf("result = %+v", res)
	}
}

func TestLocal_RadiusTemplateWarningDoesNotFail(t *testing.T) {
	values := registry.Default().Defaults()
	values[registry.FingerboardRadius] = 20.0
	values[registry.FingerboardWidthAtEnd] = 40.0
	res := calc(t, values)
	if !res.Success {
		t.Fatalf("expected success, errors: %v", res.Errors)
	}
	if _, ok := res.Views[ViewRadiusTemplate]; ok {
		t.Fatalf("radius template should be omitted")
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "must be larger than half the template width") {
		t.Fatalf("warnings = %v", res.Warnings)
	}
}

func TestLocal_DoesNotMutateSnapshot(t *testing.T) {
	values := registry.ValueSet{registry.VSL: 330, "unknown_key": "x"}
	before := values.Clone()
	res := calc(t, values)
	if !res.Success {
		t.Fatalf("expected success with partial input, errors: %v", res.Errors)
	}
	if !values.Equal(before) {
		t.Fatalf("snapshot mutated: %v", values)
	}
}

func TestLocal_BadType(t *testing.T) {
	res := calc(t, registry.ValueSet{registry.VSL: "long"})
	if res.Success || len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "Invalid value for Vibrating String Length") {
		t.Fatalf("result = %+v", res)
	}
}

func TestLocal_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocal(registry.Default()).Calculate(ctx, Request{Parameters: registry.ValueSet{}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLocal_GuitarCalculatesBodyStop(t *testing.T) {
	values := registry.Default().Defaults()
	values[registry.InstrumentFamily] = "GUITAR_MANDOLIN"
	values[registry.NoFrets] = 19.0
	res := calc(t, values)
	if !res.Success {
		t.Fatalf("errors: %v", res.Errors)
	}
	stop := res.DerivedValues[registry.BodyStop]
	if stop.Value == nil || *stop.Value == 195 {
		t.Fatalf("body stop should be derived, got %+v", stop)
	}
	if !strings.Contains(res.Views[ViewFretPositions], "<td>19</td>") {
		t.Fatalf("fret table should list 19 frets")
	}
}

func TestCoreMetrics(t *testing.T) {
	reg := registry.Default()
	m := CoreMetrics(reg, reg.Defaults())
	for _, k := range []registry.Key{registry.NeckAngle, registry.NeckStop, registry.BodyStop, registry.NutRelativeToRibs, registry.StringBreakAngle} {
		if m[k].Value == nil {
			t.Fatalf("core metric %s missing", k)
		}
	}
	if _, ok := m[registry.FBSurfacePointX]; ok {
		t.Fatalf("core metrics should be limited to headline values")
	}

	bad := reg.Defaults()
	bad[registry.VSL] = 1.0
	for k, v := range CoreMetrics(reg, bad) {
		if v.Value != nil || v.Format() != registry.Placeholder {
			t.Fatalf("%s should be missing for invalid input, got %q", k, v.Format())
		}
	}
}

func TestDerivedValue_JSONAndFormat(t *testing.T) {
	nan := math.NaN()
	dv := DerivedValue{Key: registry.NeckAngle, Value: &nan, Decimals: 1, Unit: "°"}
	if dv.Format() != registry.Placeholder {
		t.Fatalf("NaN formatted as %q", dv.Format())
	}
	b, err := json.Marshal(dv)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"value":null`) {
		t.Fatalf("NaN should encode as null: %s", b)
	}
	if !math.IsNaN(DerivedValue{}.Float()) {
		t.Fatalf("missing value should read as NaN")
	}
}

func TestSorted(t *testing.T) {
	got := Sorted(map[registry.Key]DerivedValue{
		"b": {Key: "b", Order: 2},
		"a": {Key: "a", Order: 2},
		"c": {Key: "c", Order: 1},
	})
	if got[0].Key != "c" || got[1].Key != "a" || got[2].Key != "b" {
		t.Fatalf("order = %v %v %v", got[0].Key, got[1].Key, got[2].Key)
	}
}
