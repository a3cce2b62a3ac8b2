// Package designer is the interactive terminal designer: a live form whose
// edits are debounced into calculations by the orchestrator machine.
package designer

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/engine"
	"github.com/idlab-discover/neckgen-cli/internal/form"
	paramio "github.com/idlab-discover/neckgen-cli/internal/io"
	"github.com/idlab-discover/neckgen-cli/internal/orchestrator"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

type Options struct {
	Registry   *registry.Registry
	Values     registry.ValueSet
	Calculator engine.Calculator
	Layout     form.Layout
	Config     orchestrator.Config
	// ExportDir receives the current view when the user presses x.
	ExportDir string
}

type recomputeMsg struct{ token uint64 }
type dismissMsg struct{ token uint64 }
type calcDoneMsg struct {
	id  string
	res *engine.Result
	err error
}

// Model is the Bubble Tea model of the designer.
type Model struct {
	ctx     context.Context
	reg     *registry.Registry
	machine *orchestrator.Machine
	calc    engine.Calculator
	handle  *form.Handle
	layout  form.Layout
	export  string

	// effects collects what form callbacks return during one Update.
	effects []orchestrator.Effect
	editErr error

	focus    registry.Key
	input    textinput.Model
	editing  bool
	spinner  spinner.Model
	status   string
	width    int
	height   int
	quitting bool
	saved    bool
}

func New(ctx context.Context, opt Options) *Model {
	m := &Model{
		ctx:     ctx,
		reg:     opt.Registry,
		machine: orchestrator.New(opt.Registry, opt.Config),
		calc:    opt.Calculator,
		layout:  opt.Layout,
		export:  opt.ExportDir,
		width:   100,
		height:  40,
	}
	if m.layout == nil {
		m.layout = form.Choose(m.reg)
	}
	values := opt.Values
	if values == nil {
		values = m.reg.Defaults()
	}
	route := func(key registry.Key, value any) {
		effects, err := m.machine.Edit(key, value)
		m.effects = append(m.effects, effects...)
		m.editErr = err
	}
	m.handle = form.Render(m.reg, values, form.Callbacks{OnDebounced: route, OnImmediate: route})
	m.machine.Bind(m.handle)
	m.effects = m.machine.Load(values)

	m.input = textinput.New()
	m.input.CharLimit = 64
	m.input.SetWidth(24)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(ui.ColorSecondary)

	if fs := m.focusable(); len(fs) > 0 {
		m.focus = fs[0].Key()
	}
	return m
}

// Machine exposes the orchestrator state, e.g. for saving after exit.
func (m *Model) Machine() *orchestrator.Machine { return m.machine }

// Saved reports whether the user left with "save and quit".
func (m *Model) Saved() bool { return m.saved }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.flush())
}

// flush turns pending machine effects into commands.
func (m *Model) flush() tea.Cmd {
	effects := m.effects
	m.effects = nil
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case orchestrator.ScheduleRecompute:
			cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg { return recomputeMsg{token: e.Token} }))
		case orchestrator.ScheduleDismiss:
			cmds = append(cmds, tea.Tick(e.Delay, func(time.Time) tea.Msg { return dismissMsg{token: e.Token} }))
		case orchestrator.StartCalculation:
			req := e.Request
			cmds = append(cmds, func() tea.Msg {
				res, err := orchestrator.SafeCalculate(m.ctx, m.calc, req)
				return calcDoneMsg{id: req.ID, res: res, err: err}
			})
		}
	}
	return tea.Batch(cmds...)
}

// focusable lists the visible controls in layout order.
func (m *Model) focusable() []form.Control {
	var out []form.Control
	for _, g := range m.layout.Groups(m.reg, m.handle) {
		out = append(out, g.Visible()...)
	}
	return out
}

func (m *Model) moveFocus(delta int) {
	fs := m.focusable()
	if len(fs) == 0 {
		return
	}
	i := slices.IndexFunc(fs, func(c form.Control) bool { return c.Key() == m.focus })
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + len(fs)) % len(fs)
	}
	m.focus = fs[i].Key()
}

func (m *Model) focused() (form.Control, bool) {
	c, ok := m.handle.Control(m.focus)
	if !ok || c.Hidden() {
		return nil, false
	}
	return c, true
}

// edit sends one value through the form pipeline.
func (m *Model) edit(apply func() error) {
	m.editErr = nil
	if err := apply(); err != nil {
		m.status = err.Error()
		return
	}
	if m.editErr != nil {
		m.status = m.editErr.Error()
		return
	}
	m.status = ""
	// a family switch can hide the focused control
	if _, ok := m.focused(); !ok {
		m.moveFocus(0)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case recomputeMsg:
		m.effects = append(m.effects, m.machine.TimerFired(msg.token)...)
		return m, m.flush()

	case dismissMsg:
		m.machine.DismissValidation(msg.token)
		return m, nil

	case calcDoneMsg:
		m.effects = append(m.effects, m.machine.CalculationDone(msg.id, msg.res, msg.err)...)
		return m, m.flush()

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.editing = false
		m.input.Blur()
		text := m.input.Value()
		key := m.focus
		m.edit(func() error { return m.handle.EditText(key, text) })
		return m, m.flush()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		m.saved = true
		m.quitting = true
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.moveFocus(-1)
	case "down", "j", "tab":
		m.moveFocus(1)
	case "v":
		views := engine.Views()
		cur, _ := m.machine.View()
		i := slices.Index(views, cur)
		_ = m.machine.SetView(views[(i+1)%len(views)])
	case "x":
		m.exportView()
	case "enter", " ", "left", "right", "h", "l":
		c, ok := m.focused()
		if !ok {
			return m, nil
		}
		return m, m.activate(c, msg.String())
	}
	return m, nil
}

// activate edits the focused control: enums cycle, booleans toggle,
// numbers and strings open the text input. Calculated controls only
// report that they are calculated.
func (m *Model) activate(c form.Control, key string) tea.Cmd {
	if c.ReadOnly() {
		m.status = c.Def().Label + " is calculated"
		return nil
	}
	switch c := c.(type) {
	case *form.EnumControl:
		opts := c.Options()
		if len(opts) == 0 {
			return nil
		}
		step := 1
		if key == "left" || key == "h" {
			step = -1
		}
		next := opts[(c.Selected()+step+len(opts))%len(opts)].Value
		m.edit(func() error { return m.handle.Edit(c.Key(), next) })
		return m.flush()
	case *form.BoolControl:
		checked := !c.Checked()
		m.edit(func() error { return m.handle.Edit(c.Key(), checked) })
		return m.flush()
	default:
		if key != "enter" {
			return nil
		}
		m.editing = true
		m.input.SetValue(c.Text())
		m.input.CursorEnd()
		return m.input.Focus()
	}
}

func (m *Model) exportView() {
	name, artifact := m.machine.View()
	if artifact == "" {
		m.status = "nothing rendered for " + name + " yet"
		return
	}
	dir := m.export
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, name+engine.ViewExt(name))
	if err := paramio.WriteView(path, artifact); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "wrote " + path
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = !m.quitting
	return v
}

func (m *Model) render() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.measurements())
	b.WriteString("\n\n")

	lines, at := m.formLines()
	room := max(6, m.height-14)
	start := min(max(0, at-room/2), max(0, len(lines)-room))
	end := min(len(lines), start+room)
	b.WriteString(strings.Join(lines[start:end], "\n"))
	b.WriteString("\n\n")

	if msgs := m.machine.Messages(); len(msgs) > 0 {
		b.WriteString(ui.RenderNotices(Notices(msgs)))
		b.WriteString("\n")
	}
	for _, w := range m.machine.Warnings() {
		b.WriteString(ui.GetWarnMark() + " " + ui.Warning.Render(w) + "\n")
	}
	if m.status != "" {
		b.WriteString(ui.Dim.Render(m.status) + "\n")
	}
	b.WriteString(ui.Muted.Render("↑/↓ move · enter edit · ←/→ cycle · v view · x export view · ctrl+s save & quit · q quit"))
	return b.String()
}

func (m *Model) header() string {
	values := m.machine.Values()
	name, _ := values.String(registry.InstrumentName)
	family, _ := values.Family()
	view, artifact := m.machine.View()

	state := ui.Success.Render("ready")
	switch m.machine.State() {
	case orchestrator.Calculating:
		state = m.spinner.View() + " " + ui.Secondary.Render("calculating")
	case orchestrator.PendingDebounce:
		state = ui.Muted.Render("pending")
	}
	rendered := ui.Muted.Render("not rendered")
	if artifact != "" {
		rendered = ui.Dim.Render(fmt.Sprintf("%d bytes", len(artifact)))
	}
	return fmt.Sprintf("%s %s  %s  %s %s",
		ui.Title.Render(name), ui.Dim.Render("("+string(family)+")"), state,
		ui.Dim.Render("view "+view), rendered)
}

func (m *Model) measurements() string {
	var ms []ui.Measurement
	for _, km := range m.reg.KeyMeasurements() {
		dv := m.machine.KeyMeasurement(km)
		label := dv.DisplayName
		if label == "" {
			label = string(km.Key)
		}
		ms = append(ms, ui.Measurement{Label: label, Value: dv.Format(), Primary: km.Primary})
	}
	return ui.RenderMeasurements(ms)
}

// formLines renders the layout and returns the line of the focused control.
func (m *Model) formLines() ([]string, int) {
	var lines []string
	at := 0
	for _, g := range m.layout.Groups(m.reg, m.handle) {
		cs := g.Visible()
		if len(cs) == 0 {
			continue
		}
		title := ui.SectionHeader.Render(g.Title)
		if g.Output {
			title = ui.Calculated.Render(g.Title)
		}
		lines = append(lines, title)
		for _, c := range cs {
			if c.Key() == m.focus {
				at = len(lines)
			}
			lines = append(lines, m.controlLine(c))
		}
	}
	return lines, at
}

func (m *Model) controlLine(c form.Control) string {
	cursor := "  "
	label := c.Label()
	if c.Key() == m.focus {
		cursor = ui.Focused.Render("› ")
	}
	value := c.Text()
	if _, ok := c.(*form.NumberControl); ok && value != "" && value != registry.Placeholder {
		switch u := c.Def().Unit; u {
		case "", "fret #":
		case "°":
			value += u
		default:
			value += " " + u
		}
	}
	switch {
	case m.editing && c.Key() == m.focus:
		value = m.input.View()
	case c.ReadOnly():
		label = ui.Calculated.Render(label)
		value = ui.Calculated.Render(value)
	case c.Key() == m.focus:
		label = ui.Focused.Render(label)
	}
	pad := max(1, 44-lipgloss.Width(c.Label()))
	return cursor + label + strings.Repeat(" ", pad) + value
}

// Notices converts orchestrator messages for display.
func Notices(msgs []orchestrator.Message) []ui.Notice {
	out := make([]ui.Notice, len(msgs))
	for i, msg := range msgs {
		out[i] = ui.Notice{Kind: msg.Kind.String(), Text: msg.Text, Transient: msg.Kind.Transient()}
	}
	return out
}

// Run starts the designer and returns the final values. Leaving without
// saving returns apperr.ErrCancelled.
func Run(ctx context.Context, opt Options) (registry.ValueSet, error) {
	model := New(ctx, opt)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}
	dm := final.(*Model)
	if !dm.Saved() {
		return nil, apperr.ErrCancelled
	}
	return dm.Machine().Values(), nil
}
