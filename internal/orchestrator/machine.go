// Package orchestrator debounces parameter edits into calculation requests
// and applies their results back to the value set, the form and the
// derived value cache.
//
// Machine is a pure state machine: every transition returns the effects a
// driver must execute (arm a timer, start a calculation). Loop is such a
// driver built on goroutines; the designer TUI is another built on
// bubbletea commands.
package orchestrator

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/idlab-discover/neckgen-cli/internal/engine"
	"github.com/idlab-discover/neckgen-cli/internal/form"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/visibility"
)

const (
	DefaultDelay        = 500 * time.Millisecond
	DefaultDismissAfter = 4 * time.Second
)

// State is the recomputation state.
type State int

const (
	Idle State = iota
	PendingDebounce
	Calculating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingDebounce:
		return "pending"
	case Calculating:
		return "calculating"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MessageKind classifies a user-visible message.
type MessageKind int

const (
	// KindValidation messages are transient and dismissed automatically.
	KindValidation MessageKind = iota
	// KindCalculation messages come from an unsuccessful result and stay
	// until the next edit.
	KindCalculation
	// KindEngine messages carry the raw error of a failed engine call and
	// stay until the next edit.
	KindEngine
)

func (k MessageKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCalculation:
		return "calculation"
	case KindEngine:
		return "engine"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Transient reports whether messages of this kind dismiss themselves.
func (k MessageKind) Transient() bool { return k == KindValidation }

type Message struct {
	Kind MessageKind
	Text string
}

// Effect is work a driver performs on behalf of the machine.
type Effect interface{ effect() }

// ScheduleRecompute asks for TimerFired(Token) after Delay. Any earlier
// recompute timer may be stopped; its token is stale either way.
type ScheduleRecompute struct {
	Token uint64
	Delay time.Duration
}

// StartCalculation asks for Request to be sent to the engine and the
// outcome reported through CalculationDone.
type StartCalculation struct {
	Request engine.Request
}

// ScheduleDismiss asks for DismissValidation(Token) after Delay.
type ScheduleDismiss struct {
	Token uint64
	Delay time.Duration
}

func (ScheduleRecompute) effect() {}
func (StartCalculation) effect()  {}
func (ScheduleDismiss) effect()   {}

type Config struct {
	// Delay is the trailing debounce window for recalculation.
	Delay time.Duration
	// DismissAfter is how long validation messages stay visible.
	DismissAfter time.Duration
	// Context is passed with every calculation request.
	Context string
}

func (c Config) withDefaults() Config {
	if c.Delay <= 0 {
		c.Delay = DefaultDelay
	}
	if c.DismissAfter <= 0 {
		c.DismissAfter = DefaultDismissAfter
	}
	return c
}

// Machine owns the parameter values and everything derived from them. It is
// not safe for concurrent use; a single driver serialises all calls.
type Machine struct {
	reg  *registry.Registry
	eval *visibility.Evaluator
	cfg  Config
	form *form.Handle

	values   registry.ValueSet
	derived  map[registry.Key]engine.DerivedValue
	core     map[registry.Key]engine.DerivedValue
	views    map[string]string
	view     string
	messages []Message
	warnings []string

	pending      bool
	timerToken   uint64
	generating   bool
	inflight     string
	dismissToken uint64

	calculations int
	dropped      int
}

// New creates a machine holding the registry defaults.
func New(reg *registry.Registry, cfg Config) *Machine {
	m := &Machine{
		reg:    reg,
		eval:   visibility.New(reg),
		cfg:    cfg.withDefaults(),
		values: reg.Defaults(),
		views:  map[string]string{},
		view:   engine.ViewSide,
	}
	m.core = engine.CoreMetrics(reg, m.values)
	return m
}

func (m *Machine) Registry() *registry.Registry { return m.reg }
func (m *Machine) Config() Config               { return m.cfg }

// Bind attaches a form. Its visibility follows every value change and its
// read-only controls receive calculated values.
func (m *Machine) Bind(h *form.Handle) {
	m.form = h
	if h == nil {
		return
	}
	for k, v := range m.values {
		_ = h.SetValue(k, v)
	}
	h.UpdateVisibility(m.values)
}

func (m *Machine) State() State {
	switch {
	case m.generating:
		return Calculating
	case m.pending:
		return PendingDebounce
	default:
		return Idle
	}
}

// Values returns a copy of the current parameter values.
func (m *Machine) Values() registry.ValueSet { return m.values.Clone() }

// Derived returns the derived values of the last successful calculation.
func (m *Machine) Derived() map[registry.Key]engine.DerivedValue { return m.derived }

// CoreMetrics returns the headline values for the current parameters.
func (m *Machine) CoreMetrics() map[registry.Key]engine.DerivedValue { return m.core }

// KeyMeasurement returns the core metric shown for km in the active family.
func (m *Machine) KeyMeasurement(km registry.KeyMeasurement) engine.DerivedValue {
	return m.core[km.KeyFor(m.eval.ActiveFamily(m.values))]
}

func (m *Machine) Messages() []Message { return slices.Clone(m.messages) }
func (m *Machine) Warnings() []string  { return slices.Clone(m.warnings) }

// HasErrors reports whether any persistent or validation message is shown.
func (m *Machine) HasErrors() bool { return len(m.messages) > 0 }

// Calculations counts the calculation requests started so far.
func (m *Machine) Calculations() int { return m.calculations }

// Dropped counts recompute requests refused while a calculation was in flight.
func (m *Machine) Dropped() int { return m.dropped }

// View returns the current view name and its last rendered artifact.
func (m *Machine) View() (string, string) { return m.view, m.views[m.view] }

// Views returns a copy of the last rendered artifacts by view name.
func (m *Machine) Views() map[string]string { return maps.Clone(m.views) }

// Artifact returns the last rendered artifact of a view.
func (m *Machine) Artifact(view string) (string, bool) {
	a, ok := m.views[view]
	return a, ok
}

// SetView selects the current view.
func (m *Machine) SetView(view string) error {
	if !slices.Contains(engine.Views(), view) {
		return fmt.Errorf("unknown view %q", view)
	}
	m.view = view
	return nil
}

// Edit applies a user edit to one parameter and re-arms the debounce.
// Calculated and unknown parameters are rejected.
func (m *Machine) Edit(key registry.Key, raw any) ([]Effect, error) {
	def, ok := m.reg.Lookup(key)
	if !ok || !def.HasInput() {
		return nil, fmt.Errorf("%w: %s", form.ErrUnknown, key)
	}
	if m.eval.State(def, m.values).Output {
		return nil, fmt.Errorf("%w: %s", form.ErrReadOnly, key)
	}
	v, err := registry.Coerce(def, raw)
	if err != nil {
		return nil, err
	}
	m.values[key] = v
	if m.form != nil {
		_ = m.form.SetValue(key, v)
	}
	logf(string(key), "edited to %v", v)
	return m.changed(), nil
}

// Load replaces every value, e.g. from a preset or a profile, and schedules
// a recalculation like an edit.
func (m *Machine) Load(values registry.ValueSet) []Effect {
	m.values = m.reg.Complete(values.Clone())
	if m.form != nil {
		for k, v := range m.values {
			_ = m.form.SetValue(k, v)
		}
	}
	logf("", "loaded %d value(s)", len(values))
	return m.changed()
}

// changed runs after every value change: form visibility, messages, core
// metrics, then the debounce timer.
func (m *Machine) changed() []Effect {
	if m.form != nil {
		m.form.UpdateVisibility(m.values)
	}
	m.clear(KindCalculation, KindEngine)
	effects := m.validate()
	m.core = engine.CoreMetrics(m.reg, m.values)

	m.timerToken++
	m.pending = true
	return append(effects, ScheduleRecompute{Token: m.timerToken, Delay: m.cfg.Delay})
}

// validate replaces the validation messages and schedules their dismissal.
func (m *Machine) validate() []Effect {
	m.clear(KindValidation)
	problems := m.eval.Validate(m.values)
	if len(problems) == 0 {
		return nil
	}
	for _, p := range problems {
		m.messages = append(m.messages, Message{Kind: KindValidation, Text: p})
	}
	m.dismissToken++
	return []Effect{ScheduleDismiss{Token: m.dismissToken, Delay: m.cfg.DismissAfter}}
}

// TimerFired ends a debounce window. Stale tokens are ignored. Invalid
// values keep the machine idle; a calculation already in flight causes the
// request to be dropped.
func (m *Machine) TimerFired(token uint64) []Effect {
	if !m.pending || token != m.timerToken {
		return nil
	}
	m.pending = false
	// Messages and their dismissal belong to the edit that caused them.
	if problems := m.eval.Validate(m.values); len(problems) > 0 {
		logf("", "recompute skipped: %d validation error(s)", len(problems))
		return nil
	}
	if m.generating {
		m.dropped++
		logf(m.inflight, "recompute dropped: calculation in flight")
		return nil
	}
	m.generating = true
	m.inflight = uuid.NewString()
	m.calculations++
	logf(m.inflight, "calculation started")
	return []Effect{StartCalculation{Request: engine.Request{
		ID:         m.inflight,
		Parameters: m.values.Clone(),
		Context:    m.cfg.Context,
	}}}
}

// CalculationDone applies the outcome of the in-flight calculation. The
// result is applied in full even if values changed meanwhile. Failures
// leave the previous outputs in place.
func (m *Machine) CalculationDone(id string, res *engine.Result, err error) []Effect {
	if !m.generating || id != m.inflight {
		logf(id, "ignoring result of unknown request")
		return nil
	}
	m.generating = false
	m.inflight = ""
	m.clear(KindCalculation, KindEngine)

	switch {
	case err != nil:
		m.messages = append(m.messages, Message{Kind: KindEngine, Text: err.Error()})
		logf(id, "engine error: %v", err)
	case res == nil:
		m.messages = append(m.messages, Message{Kind: KindEngine, Text: "engine returned no result"})
		logf(id, "engine returned no result")
	case !res.Success:
		for _, e := range res.Errors {
			m.messages = append(m.messages, Message{Kind: KindCalculation, Text: e})
		}
		if len(res.Errors) == 0 {
			m.messages = append(m.messages, Message{Kind: KindCalculation, Text: "calculation failed"})
		}
		logf(id, "calculation failed: %d error(s)", len(res.Errors))
	default:
		m.apply(res)
		logf(id, "applied %d derived value(s)", len(res.DerivedValues))
	}
	return nil
}

// apply replaces outputs wholesale and copies calculated values into the
// parameters that are outputs in the active family.
func (m *Machine) apply(res *engine.Result) {
	m.derived = res.DerivedValues
	m.views = res.Views
	if m.views == nil {
		m.views = map[string]string{}
	}
	m.warnings = slices.Clone(res.Warnings)

	family := m.eval.ActiveFamily(m.values)
	for _, def := range m.reg.Inputs() {
		if !visibility.IsOutput(def, family) {
			continue
		}
		dv, ok := m.derived[def.Key]
		if !ok || dv.Value == nil {
			continue
		}
		m.values[def.Key] = *dv.Value
		if m.form != nil {
			_ = m.form.SetValue(def.Key, *dv.Value)
		}
	}
	if m.form != nil {
		for _, def := range m.reg.Outputs() {
			if def.HasInput() {
				continue
			}
			var v any
			if dv, ok := m.derived[def.Key]; ok && dv.Value != nil {
				v = *dv.Value
			}
			_ = m.form.SetValue(def.Key, v)
		}
	}
	m.core = engine.CoreMetrics(m.reg, m.values)
}

// DismissValidation hides validation messages if token is current.
func (m *Machine) DismissValidation(token uint64) {
	if token == m.dismissToken {
		m.clear(KindValidation)
	}
}

func (m *Machine) clear(kinds ...MessageKind) {
	m.messages = slices.DeleteFunc(m.messages, func(msg Message) bool {
		return slices.Contains(kinds, msg.Kind)
	})
}
