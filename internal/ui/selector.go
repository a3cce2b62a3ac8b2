package ui

import (
	"strings"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
)

// SelectorItem is one choice in an interactive selector.
type SelectorItem struct {
	ID     string
	Name   string
	Detail string
}

type selectorEntry struct{ item SelectorItem }

func (e selectorEntry) Title() string       { return e.item.Name }
func (e selectorEntry) Description() string { return Dim.Render(e.item.Detail) }
func (e selectorEntry) FilterValue() string { return e.item.Name + " " + e.item.ID }

// selectorModel is the Bubble Tea model for picking one item, e.g. a
// preset or a saved profile.
type selectorModel struct {
	list      list.Model
	title     string
	chosen    string
	confirmed bool
	quitting  bool
}

func newSelector(title string, items []SelectorItem) *selectorModel {
	entries := make([]list.Item, len(items))
	for i, it := range items {
		entries[i] = selectorEntry{item: it}
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	delegate.SetSpacing(1)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorHighlight).
		BorderForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorTextDim).
		BorderForeground(ColorPrimary)

	l := list.New(entries, delegate, 60, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)

	return &selectorModel{list: l, title: title}
}

func (m *selectorModel) Init() tea.Cmd { return nil }

func (m *selectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if e, ok := m.list.SelectedItem().(selectorEntry); ok {
				m.chosen = e.item.ID
				m.confirmed = true
			}
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-2)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *selectorModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(Dim.Render("enter: choose · /: filter · esc: cancel"))
	return tea.NewView(b.String())
}

// RunSelector shows items and returns the ID of the chosen one.
func RunSelector(title string, items []SelectorItem) (string, error) {
	if len(items) == 0 {
		return "", apperr.User("nothing to choose from")
	}
	p := tea.NewProgram(newSelector(title, items))
	m, err := p.Run()
	if err != nil {
		return "", err
	}
	sel := m.(*selectorModel)
	if !sel.confirmed {
		return "", apperr.ErrCancelled
	}
	return sel.chosen, nil
}
