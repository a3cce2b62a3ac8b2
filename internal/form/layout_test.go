package form

import (
	"testing"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "sections", false},
		{"sections", "sections", false},
		{"categories", "categories", false},
		{"tabs", "", true},
	}
	for _, tt := range tests {
		l, err := LayoutFor(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("LayoutFor(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil || l.Name() != tt.want {
			t.Fatalf("LayoutFor(%q) = %v, %v", tt.name, l, err)
		}
	}
}

func TestChoose(t *testing.T) {
	if Choose(registry.Default()).Name() != "sections" {
		t.Fatalf("built-in registry has sections")
	}
	bare := registry.MustNew([]registry.ParameterDefinition{{
		Key: "depth", Type: registry.TypeNumber, Label: "Depth", Default: 1.0, Role: registry.RoleInput,
	}}, nil, nil)
	if Choose(bare).Name() != "categories" {
		t.Fatalf("registry without sections should use categories")
	}
}

func TestSectionLayout_Groups(t *testing.T) {
	reg := registry.Default()
	h := Render(reg, reg.Defaults(), Callbacks{})
	groups := SectionLayout{}.Groups(reg, h)
	if len(groups) != len(reg.Sections()) {
		t.Fatalf("got %d groups, want %d", len(groups), len(reg.Sections()))
	}
	if groups[0].ID != "identity" || len(groups[0].Controls) == 0 {
		t.Fatalf("first group = %+v", groups[0])
	}
	for _, g := range groups {
		if g.ID == "viol_specific" && len(g.Visible()) != 0 {
			t.Fatalf("viol section should have nothing visible for VIOLIN")
		}
	}
}

func TestCategoryLayout_SkipsHiddenOutputs(t *testing.T) {
	reg := registry.Default()
	h := Render(reg, reg.Defaults(), Callbacks{})
	for _, g := range (CategoryLayout{}).Groups(reg, h) {
		for _, c := range g.Controls {
			if c.Key() == registry.NeckEndX {
				t.Fatalf("internal geometry should not be laid out")
			}
		}
		if g.Title == "" {
			t.Fatalf("group without title")
		}
	}
}
