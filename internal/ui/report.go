package ui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
)

// Measurement is one headline value, e.g. the neck angle.
type Measurement struct {
	Label   string
	Value   string
	Primary bool
}

// Row is one line of a parameter or derived value table.
type Row struct {
	Category   string
	Label      string
	Value      string
	Calculated bool
}

// Notice is a user-visible message. Transient notices are validation
// problems; the others stay until the next edit.
type Notice struct {
	Kind      string
	Text      string
	Transient bool
}

// ReportUI prints calculation results for the one-shot commands.
type ReportUI struct {
	writer io.Writer
	quiet  bool
}

func NewReportUI(w io.Writer, quiet bool) *ReportUI {
	return &ReportUI{writer: w, quiet: quiet}
}

// RenderMeasurements renders the key measurements as one line.
func RenderMeasurements(ms []Measurement) string {
	parts := make([]string, 0, len(ms))
	for _, m := range ms {
		value := Calculated.Render(m.Value)
		if m.Primary {
			value = Highlight.Render(m.Value)
		}
		parts = append(parts, Dim.Render(m.Label+" ")+value)
	}
	return strings.Join(parts, Muted.Render("  │  "))
}

// RenderTable renders rows grouped under their category headers.
func RenderTable(rows []Row) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Label))
	}
	var sb strings.Builder
	category := ""
	for i, r := range rows {
		if r.Category != category || i == 0 {
			if i > 0 {
				sb.WriteString("\n")
			}
			category = r.Category
			sb.WriteString(SectionHeader.Render(category))
			sb.WriteString("\n")
		}
		label := r.Label + strings.Repeat(" ", width-lipgloss.Width(r.Label))
		value := r.Value
		if r.Calculated {
			value = Calculated.Render(value)
		}
		fmt.Fprintf(&sb, "  %s  %s\n", Dim.Render(label), value)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// RenderNotices renders messages with an icon per kind.
func RenderNotices(ns []Notice) string {
	lines := make([]string, 0, len(ns))
	for _, n := range ns {
		if n.Transient {
			lines = append(lines, GetWarnMark()+" "+Warning.Render(n.Text))
		} else {
			lines = append(lines, GetCrossMark()+" "+Error.Render(n.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// PrintResult prints a calculation outcome: measurements and the derived
// table in a box on success, the messages in an error box otherwise.
func (r *ReportUI) PrintResult(title string, ms []Measurement, rows []Row, notices []Notice, warnings []string) {
	if r.quiet {
		return
	}
	if len(notices) > 0 {
		var sb strings.Builder
		sb.WriteString(Error.Bold(true).Render("✗ Calculation Failed"))
		sb.WriteString("\n\n")
		sb.WriteString(RenderNotices(notices))
		fmt.Fprintln(r.writer, ErrorBox.Render(sb.String()))
		return
	}

	var sb strings.Builder
	sb.WriteString(Success.Bold(true).Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(RenderMeasurements(ms))
	if len(rows) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(RenderTable(rows))
	}
	fmt.Fprintln(r.writer, SuccessBox.Render(sb.String()))
	for _, w := range warnings {
		fmt.Fprintln(r.writer, GetWarnMark()+" "+Warning.Render(w))
	}
}

// ParamInfo describes one registry parameter for the params listing.
type ParamInfo struct {
	Name       string
	Label      string
	Type       string
	Default    string
	Range      string
	Visible    bool
	Calculated bool
}

// PrintParams prints a parameter listing grouped by group title.
func (r *ReportUI) PrintParams(family string, groups []string, params map[string][]ParamInfo) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.writer, Title.Render("Parameters")+" "+Dim.Render("("+family+")"))
	for _, g := range groups {
		ps := params[g]
		if len(ps) == 0 {
			continue
		}
		fmt.Fprintln(r.writer)
		fmt.Fprintln(r.writer, SectionHeader.Render(g))
		for _, p := range ps {
			mark := GetBullet()
			label := p.Label
			switch {
			case !p.Visible:
				mark = Muted.Render("○")
				label = Muted.Render(label + " (hidden)")
			case p.Calculated:
				mark = Secondary.Render("ƒ")
				label = Calculated.Render(label + " (calculated)")
			}
			line := fmt.Sprintf("  %s %s %s", mark, label, Dim.Render(p.Name+" · "+p.Type))
			if p.Default != "" {
				line += Dim.Render(" · default " + p.Default)
			}
			if p.Range != "" {
				line += Dim.Render(" · " + p.Range)
			}
			fmt.Fprintln(r.writer, line)
		}
	}
}
