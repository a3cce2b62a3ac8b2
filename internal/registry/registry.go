package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Registry is the validated, immutable set of parameter definitions plus
// the presentation metadata (sections, key measurements) that refers to them.
type Registry struct {
	defs         []ParameterDefinition
	index        map[Key]int
	sections     []Section
	measurements []KeyMeasurement
}

// ConfigError collects every problem found while loading a registry.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid parameter registry: %s", strings.Join(e.Problems, "; "))
}

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// New validates the definitions and builds a registry. Unknown visibleWhen
// references and cyclic visibility dependencies are rejected here so that
// evaluation can never loop.
func New(defs []ParameterDefinition, sections []Section, measurements []KeyMeasurement) (*Registry, error) {
	r := &Registry{
		defs:         make([]ParameterDefinition, 0, len(defs)),
		index:        make(map[Key]int, len(defs)),
		sections:     append([]Section(nil), sections...),
		measurements: append([]KeyMeasurement(nil), measurements...),
	}
	var problems []string
	for _, d := range defs {
		if d.Key == "" {
			problems = append(problems, "parameter with empty key")
			continue
		}
		if !snakeCase.MatchString(string(d.Key)) {
			problems = append(problems, fmt.Sprintf("%s: key must be snake_case", d.Key))
		}
		if _, dup := r.index[d.Key]; dup {
			problems = append(problems, fmt.Sprintf("%s: duplicate key", d.Key))
			continue
		}
		if d.Role == RoleOutput && d.IsOutput == nil {
			d.IsOutput = make(map[Family]bool, 3)
			for _, f := range Families() {
				d.IsOutput[f] = true
			}
		}
		r.index[d.Key] = len(r.defs)
		r.defs = append(r.defs, d)
	}
	for _, d := range r.defs {
		problems = append(problems, checkDefinition(d, r.index)...)
	}
	problems = append(problems, r.findCycles()...)
	for _, s := range r.sections {
		for _, k := range s.Parameters {
			if _, ok := r.index[k]; !ok {
				problems = append(problems, fmt.Sprintf("section %s: unknown parameter %s", s.ID, k))
			}
		}
	}
	for _, m := range r.measurements {
		if _, ok := r.index[m.Key]; !ok {
			problems = append(problems, fmt.Sprintf("key measurement: unknown parameter %s", m.Key))
		}
		for f, k := range m.ByFamily {
			if _, ok := r.index[k]; !ok {
				problems = append(problems, fmt.Sprintf("key measurement %s/%s: unknown parameter %s", m.Key, f, k))
			}
		}
	}
	sort.SliceStable(r.sections, func(i, j int) bool { return r.sections[i].Order < r.sections[j].Order })
	if len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}
	return r, nil
}

// MustNew is New that panics on an invalid registry.
func MustNew(defs []ParameterDefinition, sections []Section, measurements []KeyMeasurement) *Registry {
	r, err := New(defs, sections, measurements)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Default returns the built-in instrument registry.
func Default() *Registry {
	builtinOnce.Do(func() {
		builtin = MustNew(Builtin(), BuiltinSections(), BuiltinKeyMeasurements())
	})
	return builtin
}

func checkDefinition(d ParameterDefinition, index map[Key]int) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf("%s: ", d.Key)+fmt.Sprintf(format, args...))
	}
	for dep := range d.VisibleWhen {
		if _, ok := index[dep]; !ok {
			add("visibleWhen references unknown parameter %s", dep)
		}
	}
	switch d.Role {
	case RoleConditional:
		if d.Output == nil {
			add("conditional parameter needs an output format")
		}
		if len(d.IsOutput) == 0 {
			add("conditional parameter needs an isOutput map")
		}
		if d.Default == nil {
			add("conditional parameter needs a default")
		}
	case RoleOutput:
		if d.Output == nil {
			add("output parameter needs an output format")
		}
		if d.Type != TypeNumber {
			add("output parameter must be numeric")
		}
	case RoleInput:
		if d.Default == nil {
			add("input parameter needs a default")
		}
	}
	if d.Default == nil {
		return problems
	}
	switch d.Type {
	case TypeNumber:
		v, ok := toFloat(d.Default)
		if !ok {
			add("default %v is not a number", d.Default)
			break
		}
		if d.HasMin && d.HasMax && d.Min > d.Max {
			add("min %g greater than max %g", d.Min, d.Max)
		}
		if (d.HasMin && v < d.Min) || (d.HasMax && v > d.Max) {
			add("default %g outside [%g, %g]", v, d.Min, d.Max)
		}
	case TypeBoolean:
		if _, ok := d.Default.(bool); !ok {
			add("default %v is not a boolean", d.Default)
		}
	case TypeString:
		s, ok := d.Default.(string)
		if !ok {
			add("default %v is not a string", d.Default)
		} else if d.MaxLength > 0 && len(s) > d.MaxLength {
			add("default longer than %d characters", d.MaxLength)
		}
	case TypeEnum:
		if len(d.Options) == 0 {
			add("enum parameter needs options")
			break
		}
		s, _ := d.Default.(string)
		found := false
		for _, o := range d.Options {
			if o.Value == s {
				found = true
			}
		}
		if !found {
			add("default %v is not one of the options", d.Default)
		}
	default:
		add("unknown type %q", d.Type)
	}
	return problems
}

// findCycles runs a depth-first search over visibleWhen edges and reports
// every cycle as "a -> b -> a".
func (r *Registry) findCycles() []string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[Key]int, len(r.defs))
	var problems []string
	var stack []Key

	var visit func(k Key)
	visit = func(k Key) {
		color[k] = grey
		stack = append(stack, k)
		d := r.defs[r.index[k]]
		deps := make([]Key, 0, len(d.VisibleWhen))
		for dep := range d.VisibleWhen {
			deps = append(deps, dep)
		}
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		for _, dep := range deps {
			if _, ok := r.index[dep]; !ok {
				continue
			}
			switch color[dep] {
			case grey:
				start := 0
				for i, s := range stack {
					if s == dep {
						start = i
					}
				}
				path := make([]string, 0, len(stack)-start+1)
				for _, s := range stack[start:] {
					path = append(path, string(s))
				}
				path = append(path, string(dep))
				problems = append(problems, "cyclic visibleWhen dependency: "+strings.Join(path, " -> "))
			case white:
				visit(dep)
			}
		}
		stack = stack[:len(stack)-1]
		color[k] = black
	}
	for _, d := range r.defs {
		if color[d.Key] == white {
			visit(d.Key)
		}
	}
	return problems
}

// Lookup returns the definition for key.
func (r *Registry) Lookup(key Key) (ParameterDefinition, bool) {
	i, ok := r.index[key]
	if !ok {
		return ParameterDefinition{}, false
	}
	return r.defs[i], true
}

// All returns every definition in declaration order.
func (r *Registry) All() []ParameterDefinition {
	return append([]ParameterDefinition(nil), r.defs...)
}

// Inputs returns the parameters that are editable in at least one family.
func (r *Registry) Inputs() []ParameterDefinition {
	out := make([]ParameterDefinition, 0, len(r.defs))
	for _, d := range r.defs {
		if d.HasInput() {
			out = append(out, d)
		}
	}
	return out
}

// Outputs returns the parameters that can be calculated, by display order.
func (r *Registry) Outputs() []ParameterDefinition {
	out := make([]ParameterDefinition, 0, len(r.defs))
	for _, d := range r.defs {
		if d.Output != nil {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Output.Order < out[j].Output.Order })
	return out
}

// Defaults returns a value set holding the default of every parameter that
// has one.
func (r *Registry) Defaults() ValueSet {
	v := make(ValueSet, len(r.defs))
	for _, d := range r.defs {
		if d.Default != nil {
			v[d.Key] = d.Default
		}
	}
	return v
}

// DefaultValue returns the registry default for key.
func (r *Registry) DefaultValue(key Key) (any, bool) {
	d, ok := r.Lookup(key)
	if !ok || d.Default == nil {
		return nil, false
	}
	return d.Default, true
}

// Value returns values[key], falling back to the registry default.
func (r *Registry) Value(values ValueSet, key Key) (any, bool) {
	if x, ok := values[key]; ok && x != nil {
		return x, true
	}
	return r.DefaultValue(key)
}

// ActiveFamily returns the family held by values or the registry default.
func (r *Registry) ActiveFamily(values ValueSet) Family {
	x, _ := r.Value(values, InstrumentFamily)
	switch t := x.(type) {
	case string:
		return Family(t)
	case Family:
		return t
	default:
		return FamilyViolin
	}
}

// Complete fills every missing key of values with its registry default and
// returns values for chaining.
func (r *Registry) Complete(values ValueSet) ValueSet {
	if values == nil {
		values = make(ValueSet, len(r.defs))
	}
	for _, d := range r.defs {
		if _, ok := values[d.Key]; ok || d.Default == nil {
			continue
		}
		values[d.Key] = d.Default
	}
	return values
}

// Categories returns the input categories in first-seen order.
func (r *Registry) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range r.defs {
		c := d.DisplayCategory()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Sections returns the section layout metadata, ordered.
func (r *Registry) Sections() []Section {
	return append([]Section(nil), r.sections...)
}

// KeyMeasurements returns the headline measurements.
func (r *Registry) KeyMeasurements() []KeyMeasurement {
	return append([]KeyMeasurement(nil), r.measurements...)
}
