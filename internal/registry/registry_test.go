package registry

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultRegistryLoads(t *testing.T) {
	reg := Default()
	if reg == nil {
		t.Fatalf("Default() returned nil")
	}
	for _, k := range []Key{InstrumentFamily, VSL, BodyStop, NeckStop, NeckAngle, NutToPerpendicularDistance} {
		if _, ok := reg.Lookup(k); !ok {
			t.Fatalf("missing built-in parameter %s", k)
		}
	}
}

func TestDefaultsCoverEveryInput(t *testing.T) {
	reg := Default()
	defaults := reg.Defaults()
	for _, d := range reg.Inputs() {
		if _, ok := defaults[d.Key]; !ok {
			t.Fatalf("input %s has no default", d.Key)
		}
	}
	if _, ok := defaults[NeckAngle]; ok {
		t.Fatalf("output-only parameter should not carry a default")
	}
}

func TestOutputOnlyParametersAreOutputInEveryFamily(t *testing.T) {
	d, _ := Default().Lookup(NeckAngle)
	for _, f := range Families() {
		if !d.IsOutput[f] {
			t.Fatalf("neck_angle should be calculated for %s", f)
		}
	}
}

func TestOutputsSortedByOrder(t *testing.T) {
	outs := Default().Outputs()
	if len(outs) == 0 {
		t.Fatalf("expected outputs")
	}
	if outs[0].Key != NeckAngle {
		t.Fatalf("first output = %s, want neck_angle", outs[0].Key)
	}
	for i := 1; i < len(outs); i++ {
		if outs[i-1].Output.Order > outs[i].Output.Order {
			t.Fatalf("outputs not sorted at %d: %s(%d) > %s(%d)", i,
				outs[i-1].Key, outs[i-1].Output.Order, outs[i].Key, outs[i].Output.Order)
		}
	}
}

func TestNewRejectsInvalidDefinitions(t *testing.T) {
	base := func() ParameterDefinition {
		return number("depth", "Depth", "mm", 5, 0, 10, 1, "General", "")
	}
	tests := []struct {
		name string
		defs []ParameterDefinition
		want string
	}{
		{
			name: "duplicate key",
			defs: []ParameterDefinition{base(), base()},
			want: "duplicate key",
		},
		{
			name: "not snake case",
			defs: []ParameterDefinition{number("bodyStop", "Body", "mm", 5, 0, 10, 1, "", "")},
			want: "snake_case",
		},
		{
			name: "unknown visibleWhen reference",
			defs: []ParameterDefinition{when(base(), "missing", Is("x"))},
			want: "unknown parameter missing",
		},
		{
			name: "default outside bounds",
			defs: []ParameterDefinition{number("depth", "Depth", "mm", 50, 0, 10, 1, "", "")},
			want: "outside",
		},
		{
			name: "enum default not an option",
			defs: []ParameterDefinition{{
				Key: "mode", Type: TypeEnum, Label: "Mode", Default: "C",
				Options: []Option{{Value: "A"}, {Value: "B"}},
			}},
			want: "not one of the options",
		},
		{
			name: "enum without options",
			defs: []ParameterDefinition{{Key: "mode", Type: TypeEnum, Label: "Mode", Default: "A"}},
			want: "needs options",
		},
		{
			name: "conditional without output format",
			defs: []ParameterDefinition{func() ParameterDefinition {
				d := base()
				d.Role = RoleConditional
				d.IsOutput = map[Family]bool{FamilyViol: true}
				return d
			}()},
			want: "needs an output format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.defs, nil, nil)
			if err == nil {
				t.Fatalf("expected error")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestNewRejectsCyclicVisibility(t *testing.T) {
	a := when(number("a_len", "A", "mm", 1, 0, 10, 1, "", ""), "b_len", Is(1.0))
	b := when(number("b_len", "B", "mm", 1, 0, 10, 1, "", ""), "c_len", Is(1.0))
	c := when(number("c_len", "C", "mm", 1, 0, 10, 1, "", ""), "a_len", Is(1.0))

	_, err := New([]ParameterDefinition{a, b, c}, nil, nil)
	if err == nil {
		t.Fatalf("expected cycle to be rejected")
	}
	if !strings.Contains(err.Error(), "cyclic visibleWhen dependency") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "a_len -> b_len -> c_len -> a_len") {
		t.Fatalf("cycle path missing from %v", err)
	}
}

func TestNewRejectsSelfReference(t *testing.T) {
	a := when(number("a_len", "A", "mm", 1, 0, 10, 1, "", ""), "a_len", Is(1.0))
	if _, err := New([]ParameterDefinition{a}, nil, nil); err == nil {
		t.Fatalf("expected self reference to be rejected")
	}
}

func TestNewRejectsUnknownSectionParameter(t *testing.T) {
	sections := []Section{{ID: "s", Parameters: []Key{"nope"}}}
	_, err := New([]ParameterDefinition{number("depth", "Depth", "mm", 5, 0, 10, 1, "", "")}, sections, nil)
	if err == nil || !strings.Contains(err.Error(), "section s: unknown parameter nope") {
		t.Fatalf("expected section error, got %v", err)
	}
}

func TestCompleteFillsMissingKeysOnly(t *testing.T) {
	reg := Default()
	values := ValueSet{VSL: 330.0}
	reg.Complete(values)

	if v, _ := values.Number(VSL); v != 330 {
		t.Fatalf("vsl overwritten: %v", v)
	}
	if v, _ := values.Number(BodyStop); v != 195 {
		t.Fatalf("body_stop default = %v, want 195", v)
	}
	if f, _ := values.Family(); f != FamilyViolin {
		t.Fatalf("family default = %q", f)
	}
}

func TestActiveFamilyFallsBackToDefault(t *testing.T) {
	reg := Default()
	if got := reg.ActiveFamily(ValueSet{}); got != FamilyViolin {
		t.Fatalf("ActiveFamily(empty) = %s", got)
	}
	if got := reg.ActiveFamily(ValueSet{InstrumentFamily: "VIOL"}); got != FamilyViol {
		t.Fatalf("ActiveFamily(VIOL) = %s", got)
	}
}

func TestCategoriesInDeclarationOrder(t *testing.T) {
	cats := Default().Categories()
	if len(cats) == 0 || cats[0] != "General" {
		t.Fatalf("categories = %v", cats)
	}
	seen := map[string]bool{}
	for _, c := range cats {
		if seen[c] {
			t.Fatalf("duplicate category %s", c)
		}
		seen[c] = true
	}
}

func TestKeyMeasurementSwapsForGuitar(t *testing.T) {
	var stop KeyMeasurement
	for _, m := range Default().KeyMeasurements() {
		if m.Key == NeckStop {
			stop = m
		}
	}
	if got := stop.KeyFor(FamilyGuitarMandolin); got != BodyStop {
		t.Fatalf("KeyFor(GUITAR_MANDOLIN) = %s, want body_stop", got)
	}
	if got := stop.KeyFor(FamilyViolin); got != NeckStop {
		t.Fatalf("KeyFor(VIOLIN) = %s, want neck_stop", got)
	}
}

func TestSectionsOrdered(t *testing.T) {
	secs := Default().Sections()
	for i := 1; i < len(secs); i++ {
		if secs[i-1].Order > secs[i].Order {
			t.Fatalf("sections out of order at %s", secs[i].ID)
		}
	}
}
