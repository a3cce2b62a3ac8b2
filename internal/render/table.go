package render

import (
	"fmt"
	"html"
	"strings"
)

// Row is one line of the dimensions table. Value is already formatted.
type Row struct {
	Category string
	Label    string
	Value    string
}

// DimensionsTable renders rows as an HTML table, starting a new header
// row whenever the category changes.
func DimensionsTable(rows []Row) string {
	var b strings.Builder
	b.WriteString(`<table class="dimensions-table">`)
	b.WriteString(`<thead><tr><th>Parameter</th><th>Value</th></tr></thead><tbody>`)
	cat := ""
	for i, r := range rows {
		if i == 0 || r.Category != cat {
			cat = r.Category
			if cat != "" {
				fmt.Fprintf(&b, `<tr class="category"><th colspan="2">%s</th></tr>`, html.EscapeString(cat))
			}
		}
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td></tr>`, html.EscapeString(r.Label), html.EscapeString(r.Value))
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

// FretsNotApplicable is shown instead of a fret table for unfretted
// instruments.
const FretsNotApplicable = "Fret positions not applicable for violin family"

// FretTable renders fret distances. positions[0] is the nut.
func FretTable(positions []float64) string {
	if len(positions) < 2 {
		return `<p class="fret-table-unavailable">` + FretsNotApplicable + `</p>`
	}
	var b strings.Builder
	b.WriteString(`<div class="fret-table-container"><table class="fret-table">`)
	b.WriteString(`<thead><tr><th>Fret</th><th>Distance from Nut (mm)</th><th>Distance from Previous Fret (mm)</th></tr></thead><tbody>`)
	for i := 1; i < len(positions); i++ {
		fmt.Fprintf(&b, `<tr><td>%d</td><td>%.1f</td><td>%.1f</td></tr>`, i, positions[i], positions[i]-positions[i-1])
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}
