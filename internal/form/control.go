package form

import (
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

// CalculatedSuffix is appended to the label of a calculated parameter.
const CalculatedSuffix = " (calculated)"

// CalculatedClass is the style marker of a calculated control.
const CalculatedClass = "calculated"

// Listener says which change callback a control is attached to.
type Listener int

const (
	ListenerNone Listener = iota
	ListenerDebounced
	ListenerImmediate
)

func (l Listener) String() string {
	switch l {
	case ListenerDebounced:
		return "debounced"
	case ListenerImmediate:
		return "immediate"
	default:
		return "none"
	}
}

// Control is one materialised parameter. The concrete type is one of
// *NumberControl, *BoolControl, *EnumControl or *StringControl.
type Control interface {
	Def() registry.ParameterDefinition
	Key() registry.Key
	Label() string
	Hidden() bool
	ReadOnly() bool
	Class() string
	Listener() Listener
	Value() any
	// Text renders the current value for display.
	Text() string

	base() *Base
	// editListener is the listener the control gets while it is editable.
	editListener() Listener
	set(v any) error
}

// Base holds the presentation state shared by every control variant.
type Base struct {
	def      registry.ParameterDefinition
	value    any
	hidden   bool
	readOnly bool
	label    string
	class    string
	listener Listener
}

func (b *Base) Def() registry.ParameterDefinition { return b.def }
func (b *Base) Key() registry.Key                 { return b.def.Key }
func (b *Base) Label() string                     { return b.label }
func (b *Base) Hidden() bool                      { return b.hidden }
func (b *Base) ReadOnly() bool                    { return b.readOnly }
func (b *Base) Class() string                     { return b.class }
func (b *Base) Listener() Listener                { return b.listener }
func (b *Base) Value() any                        { return b.value }
func (b *Base) base() *Base                       { return b }

func (b *Base) set(v any) error {
	c, err := registry.Coerce(b.def, v)
	if err != nil {
		return err
	}
	b.value = c
	return nil
}

type NumberControl struct{ Base }

func (c *NumberControl) editListener() Listener { return ListenerDebounced }

// Number returns the value and whether it is set.
func (c *NumberControl) Number() (float64, bool) {
	f, ok := c.value.(float64)
	return f, ok
}

func (c *NumberControl) Text() string {
	if c.readOnly && c.def.Output != nil {
		return registry.FormatValue(c.value, c.def.Output.Decimals, "")
	}
	if c.value == nil {
		return ""
	}
	return registry.FormatInput(c.def, c.value)
}

func (c *NumberControl) set(v any) error {
	if v == nil {
		c.value = nil
		return nil
	}
	return c.Base.set(v)
}

type BoolControl struct{ Base }

func (c *BoolControl) editListener() Listener { return ListenerImmediate }

func (c *BoolControl) Checked() bool {
	b, _ := c.value.(bool)
	return b
}

func (c *BoolControl) Text() string { return registry.FormatInput(c.def, c.value) }

type EnumControl struct{ Base }

func (c *EnumControl) editListener() Listener { return ListenerImmediate }

func (c *EnumControl) Options() []registry.Option { return c.def.Options }

// Selected returns the index of the current option, or -1.
func (c *EnumControl) Selected() int {
	s, _ := c.value.(string)
	for i, o := range c.def.Options {
		if o.Value == s {
			return i
		}
	}
	return -1
}

func (c *EnumControl) Text() string {
	s, _ := c.value.(string)
	return c.def.OptionLabel(s)
}

type StringControl struct{ Base }

func (c *StringControl) editListener() Listener { return ListenerDebounced }

func (c *StringControl) Text() string {
	s, _ := c.value.(string)
	return s
}

func newControl(def registry.ParameterDefinition, value any) Control {
	b := Base{def: def, value: value, label: def.Label}
	switch def.Type {
	case registry.TypeBoolean:
		return &BoolControl{b}
	case registry.TypeEnum:
		return &EnumControl{b}
	case registry.TypeString:
		return &StringControl{b}
	default:
		return &NumberControl{b}
	}
}
