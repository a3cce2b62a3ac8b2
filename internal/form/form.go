// Package form materialises registry parameters into typed controls and
// routes every user edit through one change pipeline.
package form

import (
	"errors"
	"fmt"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/visibility"
)

var (
	ErrUnknown  = errors.New("unknown parameter")
	ErrReadOnly = errors.New("parameter is calculated")
	ErrHidden   = errors.New("parameter is not shown")
)

// Callbacks receive accepted edits. Number and string edits go to
// OnDebounced, enum and boolean edits to OnImmediate.
type Callbacks struct {
	OnDebounced func(key registry.Key, value any)
	OnImmediate func(key registry.Key, value any)
}

// Handle owns the controls produced by Render.
type Handle struct {
	eval      *visibility.Evaluator
	controls  []Control
	index     map[registry.Key]int
	cb        Callbacks
	mutations int
}

// Render creates one control per registered parameter, hidden ones
// included, seeded from values or the registry default. Controls that are
// calculated in the active family start read-only with no listener.
func Render(reg *registry.Registry, values registry.ValueSet, cb Callbacks) *Handle {
	h := &Handle{
		eval:  visibility.New(reg),
		index: map[registry.Key]int{},
		cb:    cb,
	}
	states := h.eval.Evaluate(values)
	for _, d := range reg.All() {
		v, _ := reg.Value(values, d.Key)
		c := newControl(d, v)
		if v != nil {
			if err := c.set(v); err != nil {
				logf(string(d.Key), "seed value %v rejected: %v", v, err)
				c.base().value = d.Default
			}
		}
		apply(c, states[d.Key])
		h.index[d.Key] = len(h.controls)
		h.controls = append(h.controls, c)
	}
	return h
}

// apply sets the presentation of c from st and reports how many
// attributes changed.
func apply(c Control, st visibility.State) int {
	b := c.base()
	label, class, listener := b.def.Label, "", c.editListener()
	if st.Output {
		label += CalculatedSuffix
		class = CalculatedClass
		listener = ListenerNone
	}
	n := 0
	if b.hidden != !st.Visible {
		b.hidden = !st.Visible
		n++
	}
	if b.readOnly != st.Output {
		b.readOnly = st.Output
		n++
	}
	if b.label != label {
		b.label = label
		n++
	}
	if b.class != class {
		b.class = class
		n++
	}
	if b.listener != listener {
		b.listener = listener
		n++
	}
	return n
}

// Controls returns the controls in registry order.
func (h *Handle) Controls() []Control { return append([]Control(nil), h.controls...) }

func (h *Handle) Control(key registry.Key) (Control, bool) {
	i, ok := h.index[key]
	if !ok {
		return nil, false
	}
	return h.controls[i], true
}

// Mutations counts the attribute changes made by UpdateVisibility so far.
func (h *Handle) Mutations() int { return h.mutations }

// UpdateVisibility re-evaluates every parameter against values and updates
// the controls in place. It returns the number of attributes changed; a
// repeated call with the same values returns 0.
func (h *Handle) UpdateVisibility(values registry.ValueSet) int {
	states := h.eval.Evaluate(values)
	n := 0
	for _, c := range h.controls {
		n += apply(c, states[c.Key()])
	}
	h.mutations += n
	if n > 0 {
		logf("", "visibility updated, %d attribute(s) changed", n)
	}
	return n
}

// Edit is the single change pipeline for user input. The value is coerced
// to the parameter type and handed to the control's listener.
func (h *Handle) Edit(key registry.Key, raw any) error {
	c, ok := h.Control(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, key)
	}
	if c.ReadOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnly, key)
	}
	if c.Hidden() {
		return fmt.Errorf("%w: %s", ErrHidden, key)
	}
	if err := c.set(raw); err != nil {
		return err
	}
	switch c.Listener() {
	case ListenerDebounced:
		if h.cb.OnDebounced != nil {
			h.cb.OnDebounced(key, c.Value())
		}
	case ListenerImmediate:
		if h.cb.OnImmediate != nil {
			h.cb.OnImmediate(key, c.Value())
		}
	}
	return nil
}

// EditText parses text for key and passes it to Edit.
func (h *Handle) EditText(key registry.Key, text string) error {
	c, ok := h.Control(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, key)
	}
	v, err := registry.Parse(c.Def(), text)
	if err != nil {
		return err
	}
	return h.Edit(key, v)
}

// SetValue replaces the value of a control without firing callbacks. It
// is how calculated outputs reach read-only controls.
func (h *Handle) SetValue(key registry.Key, v any) error {
	c, ok := h.Control(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, key)
	}
	return c.set(v)
}

// Values returns the current value of every control that holds one.
func (h *Handle) Values() registry.ValueSet {
	out := make(registry.ValueSet, len(h.controls))
	for _, c := range h.controls {
		if v := c.Value(); v != nil {
			out[c.Key()] = v
		}
	}
	return out
}
