// Package wizard walks the user through the editable parameters with a
// step-by-step huh form built from the form layout.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/form"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/visibility"
)

// field holds the huh-bound value of one parameter. Booleans bind to flag,
// every other type binds to text.
type field struct {
	def  registry.ParameterDefinition
	text *string
	flag *bool
}

type Wizard struct {
	reg    *registry.Registry
	eval   *visibility.Evaluator
	base   registry.ValueSet
	fields []*field
	groups []*huh.Group
}

// New builds one form step per editable parameter, in layout order, seeded
// from values. Steps hide themselves whenever their parameter is hidden or
// calculated for the values entered so far.
func New(reg *registry.Registry, values registry.ValueSet, layout form.Layout) *Wizard {
	if layout == nil {
		layout = form.Choose(reg)
	}
	w := &Wizard{
		reg:  reg,
		eval: visibility.New(reg),
		base: reg.Complete(values.Clone()),
	}
	w.groups = append(w.groups, huh.NewGroup(
		huh.NewNote().
			Title("Neck Geometry").
			Description("Step through the instrument parameters.\nCalculated values are skipped and filled in afterwards.").
			Next(true).
			NextLabel("Start"),
	))

	h := form.Render(reg, w.base, form.Callbacks{})
	seen := map[registry.Key]bool{}
	for _, g := range layout.Groups(reg, h) {
		for _, c := range g.Controls {
			def := c.Def()
			if !def.HasInput() || seen[def.Key] {
				continue
			}
			seen[def.Key] = true
			f := w.bind(def)
			w.fields = append(w.fields, f)
			w.groups = append(w.groups, huh.NewGroup(w.input(f, g.Title)).
				WithHideFunc(func() bool { return w.hidden(f.def) }))
		}
	}
	return w
}

func (w *Wizard) bind(def registry.ParameterDefinition) *field {
	v, _ := w.reg.Value(w.base, def.Key)
	f := &field{def: def}
	if def.Type == registry.TypeBoolean {
		b, _ := v.(bool)
		f.flag = &b
		return f
	}
	s := registry.FormatInput(def, v)
	f.text = &s
	return f
}

func title(def registry.ParameterDefinition, section string) string {
	t := def.Label
	if def.Unit != "" && def.Unit != "fret #" {
		t += " (" + def.Unit + ")"
	}
	if section != "" {
		t = section + " › " + t
	}
	return t
}

func (w *Wizard) input(f *field, section string) huh.Field {
	def := f.def
	switch def.Type {
	case registry.TypeBoolean:
		return huh.NewConfirm().
			Title(title(def, section)).
			Description(def.Description).
			Affirmative("Yes").
			Negative("No").
			Value(f.flag)
	case registry.TypeEnum:
		opts := make([]huh.Option[string], 0, len(def.Options))
		for _, o := range def.Options {
			opts = append(opts, huh.NewOption(o.Label, o.Value))
		}
		return huh.NewSelect[string]().
			Title(title(def, section)).
			Description(def.Description).
			Options(opts...).
			Value(f.text)
	default:
		return huh.NewInput().
			Title(title(def, section)).
			Description(describe(def)).
			Placeholder(registry.FormatInput(def, def.Default)).
			Value(f.text).
			Validate(func(s string) error { return check(def, s) })
	}
}

// describe adds the accepted range to a number description.
func describe(def registry.ParameterDefinition) string {
	var parts []string
	if def.Description != "" {
		parts = append(parts, def.Description)
	}
	if def.Type == registry.TypeNumber && def.HasMin && def.HasMax {
		parts = append(parts, fmt.Sprintf("Range %s to %s", registry.FormatInput(def, def.Min), registry.FormatInput(def, def.Max)))
	}
	return strings.Join(parts, "\n")
}

func check(def registry.ParameterDefinition, text string) error {
	v, err := registry.Parse(def, text)
	if err != nil {
		return err
	}
	if msg := registry.Check(def, v); msg != "" {
		return errors.New(msg)
	}
	return nil
}

func (w *Wizard) hidden(def registry.ParameterDefinition) bool {
	return !w.eval.State(def, w.Values()).Editable()
}

// Values returns the seed values overlaid with every parseable answer.
func (w *Wizard) Values() registry.ValueSet {
	out := w.base.Clone()
	for _, f := range w.fields {
		if f.flag != nil {
			out[f.def.Key] = *f.flag
			continue
		}
		v, err := registry.Parse(f.def, *f.text)
		if err != nil {
			continue
		}
		out[f.def.Key] = v
	}
	return out
}

// Steps counts the parameter steps, hidden ones included.
func (w *Wizard) Steps() int { return len(w.fields) }

// Form returns the huh form of the wizard.
func (w *Wizard) Form() *huh.Form {
	return huh.NewForm(w.groups...).WithTheme(huh.ThemeCharm())
}

// Run shows the wizard and returns the edited values. Aborting returns
// apperr.ErrCancelled.
func (w *Wizard) Run(ctx context.Context) (registry.ValueSet, error) {
	if err := w.Form().RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, apperr.ErrCancelled
		}
		return nil, err
	}
	values := w.Values()
	if problems := w.eval.Validate(values); len(problems) > 0 {
		return nil, apperr.User(strings.Join(problems, "; "))
	}
	return values, nil
}
