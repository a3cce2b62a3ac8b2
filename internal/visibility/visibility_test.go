package visibility

import (
	"testing"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	defs := []registry.ParameterDefinition{
		{
			Key: "instrument_family", Type: registry.TypeEnum, Label: "Family",
			Default: "VIOLIN", Role: registry.RoleInput,
			Options: []registry.Option{{Value: "VIOLIN"}, {Value: "VIOL"}, {Value: "GUITAR_MANDOLIN"}},
		},
		{
			Key: "fret_count", Type: registry.TypeNumber, Label: "Frets", Default: 7.0,
			Role:        registry.RoleInput,
			VisibleWhen: map[registry.Key]registry.Match{"instrument_family": registry.Is("GUITAR_MANDOLIN")},
		},
		{
			Key: "break_angle", Type: registry.TypeNumber, Label: "Break", Default: 15.0,
			Role: registry.RoleInput,
			VisibleWhen: map[registry.Key]registry.Match{
				"instrument_family": registry.OneOf("VIOL", "GUITAR_MANDOLIN"),
				"fret_count":        registry.Is(7.0),
			},
		},
		{
			Key: "body_stop", Type: registry.TypeNumber, Label: "Body Stop", Default: 195.0,
			Min: 10, Max: 500, HasMin: true, HasMax: true,
			Role:     registry.RoleConditional,
			IsOutput: map[registry.Family]bool{registry.FamilyViolin: false, registry.FamilyGuitarMandolin: true},
			Output:   &registry.OutputFormat{Decimals: 1, Visible: true},
		},
		{Key: "plain", Type: registry.TypeBoolean, Label: "Plain", Default: true, Role: registry.RoleInput},
	}
	reg, err := registry.New(defs, nil, nil)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	return reg
}

func def(t *testing.T, reg *registry.Registry, k registry.Key) registry.ParameterDefinition {
	t.Helper()
	d, ok := reg.Lookup(k)
	if !ok {
		t.Fatalf("missing %s", k)
	}
	return d
}

func TestIsVisible_NoConditionAlwaysVisible(t *testing.T) {
	reg := testRegistry(t)
	plain := def(t, reg, "plain")
	for _, values := range []registry.ValueSet{
		{},
		{"instrument_family": "VIOL"},
		{"instrument_family": "LUTE", "plain": false},
	} {
		if !IsVisible(reg, plain, values) {
			t.Fatalf("parameter without visibleWhen hidden for %v", values)
		}
	}
}

func TestIsVisible_SetMembership(t *testing.T) {
	reg := testRegistry(t)
	brk := def(t, reg, "break_angle")
	tests := []struct {
		family string
		want   bool
	}{
		{"VIOL", true},
		{"GUITAR_MANDOLIN", true},
		{"VIOLIN", false},
		{"LUTE", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			values := registry.ValueSet{"instrument_family": tt.family, "fret_count": 7.0}
			if got := IsVisible(reg, brk, values); got != tt.want {
				t.Fatalf("IsVisible(%q) = %v, want %v", tt.family, got, tt.want)
			}
		})
	}
}

func TestIsVisible_AllConditionsMustHold(t *testing.T) {
	reg := testRegistry(t)
	brk := def(t, reg, "break_angle")
	values := registry.ValueSet{"instrument_family": "VIOL", "fret_count": 9.0}
	if IsVisible(reg, brk, values) {
		t.Fatalf("expected hidden when only one condition holds")
	}
}

func TestIsVisible_MissingValueFallsBackToDefault(t *testing.T) {
	reg := testRegistry(t)
	frets := def(t, reg, "fret_count")
	if IsVisible(reg, frets, registry.ValueSet{}) {
		t.Fatalf("default family VIOLIN should hide fret_count")
	}
	brk := def(t, reg, "break_angle")
	if !IsVisible(reg, brk, registry.ValueSet{"instrument_family": "VIOL"}) {
		t.Fatalf("missing fret_count should fall back to its default 7")
	}
}

func TestIsOutput(t *testing.T) {
	reg := testRegistry(t)
	stop := def(t, reg, "body_stop")
	tests := []struct {
		family registry.Family
		want   bool
	}{
		{registry.FamilyViolin, false},
		{registry.FamilyGuitarMandolin, true},
		{registry.FamilyViol, false},
	}
	for _, tt := range tests {
		if got := IsOutput(stop, tt.family); got != tt.want {
			t.Fatalf("IsOutput(%s) = %v, want %v", tt.family, got, tt.want)
		}
	}
	if IsOutput(def(t, reg, "plain"), registry.FamilyGuitarMandolin) {
		t.Fatalf("parameter without isOutput must never be an output")
	}
}

func TestEvaluator_EvaluateCoversEveryParameter(t *testing.T) {
	reg := testRegistry(t)
	states := New(reg).Evaluate(registry.ValueSet{"instrument_family": "GUITAR_MANDOLIN"})
	if len(states) != len(reg.All()) {
		t.Fatalf("got %d states, want %d", len(states), len(reg.All()))
	}
	if !states["fret_count"].Visible {
		t.Fatalf("fret_count should be visible for guitar")
	}
	if s := states["body_stop"]; !s.Output || s.Editable() {
		t.Fatalf("body_stop state = %+v, want calculated", s)
	}
}

func TestEvaluator_ValidateSkipsHiddenAndCalculated(t *testing.T) {
	reg := testRegistry(t)
	ev := New(reg)

	values := registry.ValueSet{"instrument_family": "VIOLIN", "body_stop": 5.0}
	msgs := ev.Validate(values)
	if len(msgs) != 1 || msgs[0] != "Body Stop must be at least 10" {
		t.Fatalf("Validate(VIOLIN) = %v", msgs)
	}

	values["instrument_family"] = "GUITAR_MANDOLIN"
	if msgs := ev.Validate(values); len(msgs) != 0 {
		t.Fatalf("calculated body_stop should not be validated, got %v", msgs)
	}
}

func TestEvaluator_BuiltinScenarios(t *testing.T) {
	reg := registry.Default()
	ev := New(reg)
	values := reg.Defaults()

	if ev.Evaluate(values)[registry.FretJoin].Visible {
		t.Fatalf("fret_join should be hidden for VIOLIN")
	}
	values[registry.InstrumentFamily] = "GUITAR_MANDOLIN"
	states := ev.Evaluate(values)
	if !states[registry.FretJoin].Visible {
		t.Fatalf("fret_join should be visible for GUITAR_MANDOLIN")
	}
	if !states[registry.BodyStop].Output {
		t.Fatalf("body_stop should be calculated for GUITAR_MANDOLIN")
	}
	if msgs := ev.Validate(reg.Defaults()); len(msgs) != 0 {
		t.Fatalf("defaults should validate, got %v", msgs)
	}
}
