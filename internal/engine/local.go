package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/idlab-discover/neckgen-cli/internal/geometry"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/render"
	"github.com/idlab-discover/neckgen-cli/internal/visibility"
)

// Local runs the geometry pipeline in process.
type Local struct {
	reg  *registry.Registry
	eval *visibility.Evaluator
}

func NewLocal(reg *registry.Registry) *Local {
	return &Local{reg: reg, eval: visibility.New(reg)}
}

// Calculate validates the snapshot, computes the geometry and renders all
// views. Invalid parameters and undefined geometry are reported as an
// unsuccessful Result; only a cancelled context returns an error.
func (l *Local) Calculate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, problems := l.normalize(req.Parameters)
	if len(problems) == 0 {
		problems = l.eval.Validate(values)
	}
	if len(problems) > 0 {
		logf(req.ID, "rejected: %d validation error(s)", len(problems))
		return &Result{Success: false, Errors: problems}, nil
	}

	in := geometry.InputFrom(l.reg, values)
	g, err := geometry.Compute(in)
	if err != nil {
		logf(req.ID, "geometry failed: %v", err)
		return &Result{Success: false, Errors: []string{"Geometry generation failed: " + err.Error()}}, nil
	}

	derived := Derive(l.reg, values, g)
	res := &Result{
		Success:       true,
		Views:         map[string]string{},
		DerivedValues: derived,
		Errors:        []string{},
	}

	show, _ := values.Bool(registry.ShowMeasurements)
	name, _ := values.String(registry.InstrumentName)
	opt := render.Options{Title: name, Footer: req.Context, ShowMeasurements: show}
	res.Views[ViewSide] = render.SideView(in, g, opt)
	res.Views[ViewCrossSection] = render.CrossSection(in, g, opt)
	res.Views[ViewDimensions] = render.DimensionsTable(l.rows(values, derived))
	res.Views[ViewFretPositions] = render.FretTable(g.FretPositions)
	if svg, err := render.RadiusTemplate(in.FingerboardRadius, in.FingerboardWidthAtEnd); err == nil {
		res.Views[ViewRadiusTemplate] = svg
	} else {
		res.Warnings = append(res.Warnings, err.Error())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logf(req.ID, "calculated %d derived value(s), %d view(s)", len(derived), len(res.Views))
	return res, nil
}

// normalize copies the snapshot, coerces known keys, drops unknown ones
// and fills the rest from the registry defaults.
func (l *Local) normalize(in registry.ValueSet) (registry.ValueSet, []string) {
	out := make(registry.ValueSet, len(in))
	var problems []string
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		d, ok := l.reg.Lookup(registry.Key(k))
		if !ok || !d.HasInput() {
			continue
		}
		v, err := registry.Coerce(d, in[registry.Key(k)])
		if err != nil {
			problems = append(problems, fmt.Sprintf("Invalid value for %s: %v", d.Label, err))
			continue
		}
		out[d.Key] = v
	}
	return l.reg.Complete(out), problems
}

// rows builds the dimensions table: visible inputs by category, then the
// visible derived values.
func (l *Local) rows(values registry.ValueSet, derived map[registry.Key]DerivedValue) []render.Row {
	var rows []render.Row
	states := l.eval.Evaluate(values)
	for _, cat := range l.reg.Categories() {
		for _, d := range l.reg.Inputs() {
			if d.Category != cat || d.Type != registry.TypeNumber || !states[d.Key].Editable() {
				continue
			}
			v, _ := values.Number(d.Key)
			rows = append(rows, render.Row{Category: cat, Label: d.Label, Value: registry.FormatValue(v, decimalsFor(d.Step), d.Unit)})
		}
	}
	for _, dv := range Sorted(derived) {
		if !dv.Visible {
			continue
		}
		rows = append(rows, render.Row{Category: dv.Category, Label: dv.DisplayName, Value: dv.Format()})
	}
	return rows
}

func decimalsFor(step float64) int {
	switch {
	case step <= 0 || step >= 1:
		return 0
	case step >= 0.1:
		return 1
	default:
		return 2
	}
}
