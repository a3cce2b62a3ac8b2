package render

import (
	"strings"
	"testing"

	"github.com/idlab-discover/neckgen-cli/internal/geometry"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

func violin(t *testing.T) (geometry.Input, geometry.Result) {
	t.Helper()
	reg := registry.Default()
	in := geometry.InputFrom(reg, reg.Defaults())
	g, err := geometry.Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return in, g
}

func TestDocument_ViewBoxAndFlip(t *testing.T) {
	d := NewDocument()
	d.Margin = 1
	d.AddLayer(Layer{Name: LayerDrawing, Stroke: "black"})
	d.Line(LayerDrawing, P(0, 0), P(10, 5))
	out := d.String()
	if !strings.Contains(out, `xmlns="http://www.w3.org/2000/svg"`) {
		t.Fatalf("missing namespace: %s", out)
	}
	if !strings.Contains(out, `viewBox="-1 -6 12 7"`) {
		t.Fatalf("unexpected viewBox: %s", out)
	}
	if !strings.Contains(out, `transform="scale(1,-1)"`) {
		t.Fatalf("drawing group should be flipped")
	}
}

func TestDocument_InvisibleLayerSkipped(t *testing.T) {
	d := NewDocument()
	d.AddLayer(Layer{Name: LayerDrawing, Stroke: "black"})
	d.AddLayer(Layer{Name: LayerDimensions})
	d.Line(LayerDrawing, P(0, 0), P(1, 1))
	d.Line(LayerDimensions, P(0, 0), P(500, 500))
	if _, hi := d.Bounds(); hi.X != 1 {
		t.Fatalf("hidden layer counted in bounds: %v", hi)
	}
	if strings.Contains(d.String(), `id="dimensions"`) {
		t.Fatalf("hidden layer rendered")
	}
}

func TestDocument_EscapesText(t *testing.T) {
	d := NewDocument()
	d.AddLayer(Layer{Name: LayerText, Fill: "blue"})
	d.Text(LayerText, P(0, 0), `<Viola & "Co">`, TitleFont)
	out := d.String()
	if strings.Contains(out, "<Viola") || !strings.Contains(out, "&lt;Viola &amp;") {
		t.Fatalf("text not escaped: %s", out)
	}
}

func TestSideView(t *testing.T) {
	in, g := violin(t)
	out := SideView(in, g, Options{Title: "My Violin", Footer: "neckgen-cli", ShowMeasurements: true})
	for _, want := range []string{"<svg", "viewBox=", "My Violin", "neckgen-cli", `id="drawing"`, `id="dimensions"`, "84.8°"} {
		if !strings.Contains(out, want) {
			t.Fatalf("side view missing %q", want)
		}
	}

	quiet := SideView(in, g, Options{Title: "My Violin"})
	if strings.Contains(quiet, `id="dimensions"`) {
		t.Fatalf("dimensions layer should be hidden when measurements are off")
	}
	if !strings.Contains(quiet, "My Violin") {
		t.Fatalf("title must stay when measurements are off")
	}
}

func TestCrossSection(t *testing.T) {
	in, g := violin(t)
	out := CrossSection(in, g, Options{Title: "Viola"})
	if !strings.Contains(out, "Cross-Section") || !strings.Contains(out, "<svg") {
		t.Fatalf("unexpected cross-section: %.200s", out)
	}
}

func TestRadiusTemplate(t *testing.T) {
	out, err := RadiusTemplate(41, 30)
	if err != nil {
		t.Fatalf("RadiusTemplate: %v", err)
	}
	if !strings.Contains(out, "41mm") || !strings.Contains(out, "viewBox=") {
		t.Fatalf("unexpected template: %.200s", out)
	}

	_, err = RadiusTemplate(20, 42)
	if err == nil {
		t.Fatalf("expected error when half the template is wider than the radius")
	}
	if !strings.Contains(err.Error(), "Fingerboard radius (20.0mm) must be larger than half the template width (26.0mm)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDimensionsTable(t *testing.T) {
	out := DimensionsTable([]Row{
		{Category: "Geometry", Label: "Neck Angle", Value: "84.8°"},
		{Category: "Geometry", Label: "Neck Stop", Value: "127.4 mm"},
		{Category: "Viol Geometry", Label: "Back <Break>", Value: registry.Placeholder},
	})
	if strings.Count(out, `class="category"`) != 2 {
		t.Fatalf("expected two category headers: %s", out)
	}
	if !strings.Contains(out, "Back &lt;Break&gt;") || !strings.Contains(out, registry.Placeholder) {
		t.Fatalf("row not rendered safely: %s", out)
	}
	if strings.Contains(out, "NaN") {
		t.Fatalf("NaN leaked into table")
	}
}

func TestFretTable(t *testing.T) {
	out := FretTable(geometry.FretPositions(650, 2))
	if !strings.Contains(out, "<th>Fret</th>") || !strings.Contains(out, "<td>1</td><td>36.5</td><td>36.5</td>") {
		t.Fatalf("unexpected fret table: %s", out)
	}
	if got := FretTable([]float64{0}); !strings.Contains(got, FretsNotApplicable) {
		t.Fatalf("expected not-applicable message, got %s", got)
	}
}
