// Package visibility decides, for the current value set, which parameters
// are shown and which of the shown ones are calculated rather than edited.
package visibility

import (
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

// IsVisible reports whether def should be shown for values. A parameter
// without visibleWhen is always visible; otherwise every condition must
// hold, reading missing values from the registry defaults.
func IsVisible(reg *registry.Registry, def registry.ParameterDefinition, values registry.ValueSet) bool {
	for key, want := range def.VisibleWhen {
		actual, _ := reg.Value(values, key)
		if !want.Accepts(actual) {
			return false
		}
	}
	return true
}

// IsOutput reports whether def is calculated in family.
func IsOutput(def registry.ParameterDefinition, family registry.Family) bool {
	return def.IsOutput[family]
}

// State is the evaluated presentation of one parameter.
type State struct {
	Visible bool
	Output  bool
}

// Editable reports whether the user may change the parameter.
func (s State) Editable() bool { return s.Visible && !s.Output }

// Evaluator binds the visibility rules to one registry.
type Evaluator struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Evaluator {
	return &Evaluator{reg: reg}
}

func (e *Evaluator) Registry() *registry.Registry { return e.reg }

// ActiveFamily returns the instrument family selected by values.
func (e *Evaluator) ActiveFamily(values registry.ValueSet) registry.Family {
	return e.reg.ActiveFamily(values)
}

func (e *Evaluator) State(def registry.ParameterDefinition, values registry.ValueSet) State {
	return State{
		Visible: IsVisible(e.reg, def, values),
		Output:  IsOutput(def, e.ActiveFamily(values)),
	}
}

// Evaluate returns the state of every registered parameter. It is re-run
// in full on each change since any parameter may depend on any other.
func (e *Evaluator) Evaluate(values registry.ValueSet) map[registry.Key]State {
	family := e.ActiveFamily(values)
	all := e.reg.All()
	out := make(map[registry.Key]State, len(all))
	for _, d := range all {
		out[d.Key] = State{
			Visible: IsVisible(e.reg, d, values),
			Output:  IsOutput(d, family),
		}
	}
	return out
}

// Validate checks every visible, editable parameter and returns one
// message per invalid value in registry order.
func (e *Evaluator) Validate(values registry.ValueSet) []string {
	family := e.ActiveFamily(values)
	var msgs []string
	for _, d := range e.reg.Inputs() {
		if IsOutput(d, family) || !IsVisible(e.reg, d, values) {
			continue
		}
		v, ok := e.reg.Value(values, d.Key)
		if !ok {
			continue
		}
		if msg := registry.Check(d, v); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
