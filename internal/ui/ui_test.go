package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestColorAppliesANSICodes(t *testing.T) {
	got := Color("hello", FgGreen)
	want := FgGreen + "hello" + Reset
	if got != want {
		t.Fatalf("Color() = %q, want %q", got, want)
	}
}

func TestColorWithEmptyString(t *testing.T) {
	got := Color("", FgRed)
	want := FgRed + "" + Reset
	if got != want {
		t.Fatalf("Color(\"\") = %q, want %q", got, want)
	}
}

func TestReportUI_PrintResult(t *testing.T) {
	ms := []Measurement{
		{Label: "Neck Angle", Value: "84.8°", Primary: true},
		{Label: "Neck Stop", Value: "127.4 mm"},
	}
	rows := []Row{
		{Category: "Basic Dimensions", Label: "Vibrating String Length", Value: "325.0 mm"},
		{Category: "Basic Dimensions", Label: "Body Stop", Value: "195.0 mm"},
		{Category: "Geometry", Label: "Neck Angle", Value: "84.8°", Calculated: true},
	}

	tests := []struct {
		name     string
		notices  []Notice
		warnings []string
		quiet    bool
		want     []string
		wantNot  []string
	}{
		{
			name:     "success",
			warnings: []string{"radius too small"},
			want:     []string{"Violin", "Neck Angle", "84.8°", "127.4 mm", "Basic Dimensions", "Vibrating String Length", "Geometry", "radius too small"},
			wantNot:  []string{"Calculation Failed"},
		},
		{
			name:    "failure",
			notices: []Notice{{Kind: "calculation", Text: "Neck angle out of range"}},
			want:    []string{"Calculation Failed", "Neck angle out of range"},
			wantNot: []string{"Basic Dimensions"},
		},
		{
			name:  "quiet",
			quiet: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewReportUI(&buf, tt.quiet).PrintResult("Violin", ms, rows, tt.notices, tt.warnings)
			out := buf.String()
			if tt.quiet && out != "" {
				t.Fatalf("quiet mode printed %q", out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Fatalf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(out, w) {
					t.Fatalf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestRenderTable_GroupsOnce(t *testing.T) {
	out := RenderTable([]Row{
		{Category: "A", Label: "x", Value: "1"},
		{Category: "A", Label: "longer", Value: "2"},
		{Category: "B", Label: "y", Value: "3"},
	})
	if strings.Count(out, "A") != 1 || strings.Count(out, "B") != 1 {
		t.Fatalf("category headers repeated:\n%s", out)
	}
}

func TestRenderNotices(t *testing.T) {
	out := RenderNotices([]Notice{
		{Kind: "validation", Text: "Bridge Height must be at most 100 mm", Transient: true},
		{Kind: "engine", Text: "engine not loaded"},
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "⚠") || !strings.Contains(lines[1], "✗") {
		t.Fatalf("notices = %q", out)
	}
}

func TestReportUI_PrintParams(t *testing.T) {
	var buf bytes.Buffer
	NewReportUI(&buf, false).PrintParams("GUITAR_MANDOLIN", []string{"Basic", "Empty"}, map[string][]ParamInfo{
		"Basic": {
			{Name: "vsl", Label: "Vibrating String Length", Type: "number", Default: "325", Range: "10–1000 mm", Visible: true},
			{Name: "body_stop", Label: "Body Stop", Type: "number", Visible: true, Calculated: true},
			{Name: "break_angle", Label: "Break Angle", Type: "number"},
		},
	})
	out := buf.String()
	for _, w := range []string{"GUITAR_MANDOLIN", "Basic", "default 325", "Body Stop (calculated)", "Break Angle (hidden)"} {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
	if strings.Contains(out, "Empty") {
		t.Fatalf("empty group printed")
	}
}

func TestProgress_DoRecordsOutcome(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "Export")
	ok := p.Add("first")
	bad := p.Add("second")
	skipped := p.Add("third")
	if err := p.Do(ok, func() (string, error) { return "done", nil }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if err := p.Do(bad, func() (string, error) { return "", errors.New("disk full") }); err == nil {
		t.Fatalf("expected error")
	}
	p.Skip(skipped, "no output")
	if !p.Failed() {
		t.Fatalf("Failed() = false")
	}
	p.Start()
	p.Stop()
	out := buf.String()
	for _, w := range []string{"Export", "first", "→ done", "second", "→ disk full", "→ no output"} {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
}

func TestSpinner_StopPrintsOutcome(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Calculating geometry")
	s.Stop(true, "Calculated 12 value(s)")
	out := buf.String()
	if !strings.Contains(out, "✓") || !strings.Contains(out, "Calculated 12 value(s)") {
		t.Fatalf("spinner output = %q", out)
	}
	if strings.Contains(out, "Calculating geometry") {
		t.Fatalf("final line kept the running message: %q", out)
	}
}

func TestExportUI_QuietRunsTasks(t *testing.T) {
	var buf bytes.Buffer
	e := NewExportUI(&buf, true)
	e.Start([]string{"side"}, true)
	ran := 0
	step := func() (string, error) { ran++; return "", nil }
	_ = e.Calculate(step)
	_ = e.WriteView("side", step)
	_ = e.WriteView("unknown", step)
	_ = e.WriteDocument(step)
	e.Finish()
	e.PrintSummary([]string{"a.svg"}, "dist")
	if ran != 4 {
		t.Fatalf("ran %d steps, want 4", ran)
	}
	if buf.Len() != 0 {
		t.Fatalf("quiet export printed %q", buf.String())
	}
}

func TestSelectorConfirm(t *testing.T) {
	m := newSelector("Presets", []SelectorItem{{ID: "violin", Name: "Violin", Detail: "VIOLIN"}})
	if m.list.SelectedItem().(selectorEntry).item.ID != "violin" {
		t.Fatalf("first item not selected")
	}
	if _, err := RunSelector("Presets", nil); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
