package registry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a parameter in the registry.
type Key string

func (k Key) String() string { return string(k) }

// ParamType is the value type of a parameter and selects its control variant.
type ParamType string

const (
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeString  ParamType = "string"
	TypeEnum    ParamType = "enum"
)

// Family is an instrument family, the top-level mode that decides which
// parameters are inputs and which are calculated.
type Family string

const (
	FamilyViolin         Family = "VIOLIN"
	FamilyViol           Family = "VIOL"
	FamilyGuitarMandolin Family = "GUITAR_MANDOLIN"
)

// Families returns every known family in display order.
func Families() []Family {
	return []Family{FamilyViolin, FamilyViol, FamilyGuitarMandolin}
}

// Role classifies how a parameter participates in a calculation.
type Role int

const (
	// RoleInput parameters are always edited by the user.
	RoleInput Role = iota
	// RoleOutput parameters are always produced by the engine.
	RoleOutput
	// RoleConditional parameters are inputs in some families and outputs in others.
	RoleConditional
)

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	case RoleConditional:
		return "conditional"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Option is one choice of an enum parameter.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// OutputFormat describes how a calculated value is displayed.
type OutputFormat struct {
	Decimals int    `json:"decimals"`
	Visible  bool   `json:"visible"`
	Category string `json:"category"`
	Order    int    `json:"order"`
}

// Match is the expected value of a visibleWhen condition: either a single
// value (equality) or a set of acceptable values (membership).
type Match struct {
	values []any
	set    bool
}

// Is matches a single value.
func Is(v any) Match { return Match{values: []any{v}} }

// OneOf matches any of the given values.
func OneOf(vs ...any) Match { return Match{values: append([]any(nil), vs...), set: true} }

// IsSet reports whether the match was declared as a set.
func (m Match) IsSet() bool { return m.set }

// Values returns the expected values.
func (m Match) Values() []any { return append([]any(nil), m.values...) }

// Accepts reports whether actual satisfies the condition.
func (m Match) Accepts(actual any) bool {
	for _, v := range m.values {
		if valuesEqual(v, actual) {
			return true
		}
	}
	return false
}

func (m Match) String() string {
	parts := make([]string, 0, len(m.values))
	for _, v := range m.values {
		parts = append(parts, fmt.Sprint(v))
	}
	if m.set {
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return strings.Join(parts, "")
}

func (m Match) MarshalJSON() ([]byte, error) {
	if !m.set && len(m.values) == 1 {
		return json.Marshal(m.values[0])
	}
	return json.Marshal(m.values)
}

func (m *Match) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if list, ok := raw.([]any); ok {
		*m = OneOf(list...)
		return nil
	}
	*m = Is(raw)
	return nil
}

// ParameterDefinition declares one named parameter.
type ParameterDefinition struct {
	Key         Key       `json:"name"`
	Type        ParamType `json:"type"`
	Label       string    `json:"label"`
	Unit        string    `json:"unit,omitempty"`
	Description string    `json:"description,omitempty"`

	Default   any      `json:"default"`
	Min       float64  `json:"min,omitempty"`
	Max       float64  `json:"max,omitempty"`
	HasMin    bool     `json:"-"`
	HasMax    bool     `json:"-"`
	Step      float64  `json:"step,omitempty"`
	Options   []Option `json:"options,omitempty"`
	MaxLength int      `json:"maxLength,omitempty"`

	Category string `json:"category,omitempty"`

	// VisibleWhen maps another parameter to the value(s) it must hold for
	// this one to be shown. Nil means always visible.
	VisibleWhen map[Key]Match `json:"visibleWhen,omitempty"`

	// IsOutput marks the families in which this parameter is calculated.
	IsOutput map[Family]bool `json:"isOutput,omitempty"`

	Role   Role          `json:"-"`
	Output *OutputFormat `json:"output,omitempty"`
}

// HasInput reports whether the parameter can ever be edited by the user.
func (d ParameterDefinition) HasInput() bool { return d.Role != RoleOutput }

// DisplayCategory is the category used for grouping, falling back to the
// output category for calculated-only parameters.
func (d ParameterDefinition) DisplayCategory() string {
	if d.Category != "" {
		return d.Category
	}
	if d.Output != nil {
		return d.Output.Category
	}
	return ""
}

// OptionLabel returns the label for an enum value, or the value itself.
func (d ParameterDefinition) OptionLabel(value string) string {
	for _, o := range d.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
