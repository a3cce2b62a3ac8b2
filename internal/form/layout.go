package form

import (
	"fmt"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

// Group is a titled run of controls as a layout presents them.
type Group struct {
	ID          string
	Title       string
	Description string
	Expanded    bool
	Output      bool
	Controls    []Control
}

// Visible returns the controls of g that are currently shown.
func (g Group) Visible() []Control {
	out := make([]Control, 0, len(g.Controls))
	for _, c := range g.Controls {
		if !c.Hidden() {
			out = append(out, c)
		}
	}
	return out
}

// Layout arranges the controls of a handle into groups. It is chosen once
// at startup.
type Layout interface {
	Name() string
	Groups(reg *registry.Registry, h *Handle) []Group
}

// CategoryLayout groups parameters by their category in declaration order.
// Calculated-only parameters that are not displayed are left out.
type CategoryLayout struct{}

func (CategoryLayout) Name() string { return "categories" }

func (CategoryLayout) Groups(reg *registry.Registry, h *Handle) []Group {
	byCat := map[string][]Control{}
	for _, c := range h.controls {
		d := c.Def()
		if !d.HasInput() && (d.Output == nil || !d.Output.Visible) {
			continue
		}
		cat := d.DisplayCategory()
		byCat[cat] = append(byCat[cat], c)
	}
	var groups []Group
	for _, cat := range reg.Categories() {
		cs := byCat[cat]
		if len(cs) == 0 {
			continue
		}
		output := true
		for _, c := range cs {
			if c.Def().HasInput() {
				output = false
			}
		}
		groups = append(groups, Group{ID: cat, Title: cat, Expanded: true, Output: output, Controls: cs})
	}
	return groups
}

// SectionLayout follows the section metadata of the registry.
type SectionLayout struct{}

func (SectionLayout) Name() string { return "sections" }

func (SectionLayout) Groups(reg *registry.Registry, h *Handle) []Group {
	var groups []Group
	for _, s := range reg.Sections() {
		g := Group{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Expanded:    s.DefaultExpanded,
			Output:      s.IsOutput(),
		}
		for _, k := range s.Parameters {
			if c, ok := h.Control(k); ok {
				g.Controls = append(g.Controls, c)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// LayoutFor returns the layout registered under name.
func LayoutFor(name string) (Layout, error) {
	switch name {
	case "", "sections":
		return SectionLayout{}, nil
	case "categories":
		return CategoryLayout{}, nil
	default:
		return nil, fmt.Errorf("unknown form layout %q (want sections or categories)", name)
	}
}

// Choose picks the section layout when the registry carries section
// metadata and the category layout otherwise.
func Choose(reg *registry.Registry) Layout {
	if len(reg.Sections()) > 0 {
		return SectionLayout{}
	}
	return CategoryLayout{}
}
