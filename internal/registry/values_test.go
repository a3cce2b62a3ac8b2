package registry

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValueSetEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b ValueSet
		want bool
	}{
		{name: "both empty", a: ValueSet{}, b: ValueSet{}, want: true},
		{name: "int and float", a: ValueSet{VSL: 325}, b: ValueSet{VSL: 325.0}, want: true},
		{name: "different numbers", a: ValueSet{VSL: 325.0}, b: ValueSet{VSL: 326.0}, want: false},
		{name: "family type and string", a: ValueSet{InstrumentFamily: FamilyViol}, b: ValueSet{InstrumentFamily: "VIOL"}, want: true},
		{name: "missing key", a: ValueSet{VSL: 1.0}, b: ValueSet{BodyStop: 1.0}, want: false},
		{name: "bool vs string", a: ValueSet{ShowMeasurements: true}, b: ValueSet{ShowMeasurements: "true"}, want: false},
		{name: "NaN equals NaN", a: ValueSet{VSL: math.NaN()}, b: ValueSet{VSL: math.NaN()}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Fatalf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueSetCloneIsIndependent(t *testing.T) {
	a := ValueSet{VSL: 325.0}
	b := a.Clone()
	b[VSL] = 400.0
	if v, _ := a.Number(VSL); v != 325 {
		t.Fatalf("clone shares storage")
	}
}

func TestValueSetAccessors(t *testing.T) {
	v := ValueSet{
		VSL:              int64(330),
		ShowMeasurements: "false",
		InstrumentName:   "Tenor viol",
	}
	if f, ok := v.Number(VSL); !ok || f != 330 {
		t.Fatalf("Number = %v, %v", f, ok)
	}
	if b, ok := v.Bool(ShowMeasurements); !ok || b {
		t.Fatalf("Bool = %v, %v", b, ok)
	}
	if s, ok := v.String(InstrumentName); !ok || s != "Tenor viol" {
		t.Fatalf("String = %q, %v", s, ok)
	}
	if _, ok := v.Number(InstrumentName); ok {
		t.Fatalf("Number on a string should fail")
	}
	if _, ok := v.Family(); ok {
		t.Fatalf("Family on a set without it should fail")
	}
}

func TestMatchAccepts(t *testing.T) {
	set := OneOf("VIOLIN", "VIOL")
	for _, f := range []any{"VIOLIN", FamilyViol} {
		if !set.Accepts(f) {
			t.Fatalf("set should accept %v", f)
		}
	}
	if set.Accepts("GUITAR_MANDOLIN") {
		t.Fatalf("set should reject GUITAR_MANDOLIN")
	}
	if !Is(12.0).Accepts(12) {
		t.Fatalf("numeric scalar match should ignore int/float distinction")
	}
}

func TestMatchJSONShape(t *testing.T) {
	scalar, _ := json.Marshal(Is("VIOL"))
	if string(scalar) != `"VIOL"` {
		t.Fatalf("scalar JSON = %s", scalar)
	}
	set, _ := json.Marshal(OneOf("VIOL", "VIOLIN"))
	if string(set) != `["VIOL","VIOLIN"]` {
		t.Fatalf("set JSON = %s", set)
	}

	var m Match
	if err := json.Unmarshal([]byte(`["A","B"]`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !m.IsSet() || !m.Accepts("B") {
		t.Fatalf("decoded set = %v", m)
	}
}
