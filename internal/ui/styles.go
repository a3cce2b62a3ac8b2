package ui

import (
	"fmt"
	"image/color"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// Palette. Varnish and spruce tones for accents, the usual traffic-light
// colours for outcomes.
var (
	ColorPrimary   = lipgloss.Color("#C2410C") // varnish
	ColorSecondary = lipgloss.Color("#0EA5E9") // calculated values
	ColorHighlight = lipgloss.Color("#F59E0B") // focus
	ColorSuccess   = lipgloss.Color("#22C55E")
	ColorWarning   = lipgloss.Color("#EAB308")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#78716C")

	ColorText     = lipgloss.Color("#FAFAF9")
	ColorTextDim  = lipgloss.Color("#A8A29E")
	ColorTextMute = lipgloss.Color("#78716C")
)

// styleWrapper keeps call sites to Render so the styles can be swapped
// without touching them.
type styleWrapper struct {
	style lipgloss.Style
}

func (s styleWrapper) Render(str string) string { return s.style.Render(str) }

func (s styleWrapper) Bold(v bool) styleWrapper { return styleWrapper{s.style.Bold(v)} }

func fg(c color.Color) styleWrapper { return styleWrapper{lipgloss.NewStyle().Foreground(c)} }

// Text styles.
var (
	Dim       = fg(ColorTextDim)
	Muted     = fg(ColorTextMute)
	Success   = fg(ColorSuccess)
	Warning   = fg(ColorWarning)
	Error     = fg(ColorError)
	Secondary = fg(ColorSecondary)
	Highlight = fg(ColorHighlight).Bold(true)

	// Calculated marks values produced by the engine, in tables and in
	// read-only controls.
	Calculated = styleWrapper{lipgloss.NewStyle().Foreground(ColorSecondary).Italic(true)}
	// Focused marks the control under the cursor in the designer.
	Focused = fg(ColorHighlight).Bold(true)

	Title         = fg(ColorPrimary).Bold(true)
	SectionHeader = fg(ColorSecondary).Bold(true)
)

// Progress step styles.
var (
	StepPending  = fg(ColorMuted)
	StepRunning  = fg(ColorSecondary)
	StepComplete = fg(ColorSuccess)
	StepFailed   = fg(ColorError)
	StepSkipped  = fg(ColorWarning)
)

func box(border color.Color) styleWrapper {
	return styleWrapper{lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)}
}

var (
	SuccessBox = box(ColorSuccess)
	ErrorBox   = box(ColorError)
)

// Status marks are functions so they render with the current profile.

func GetCheckMark() string { return Success.Render("✓") }
func GetCrossMark() string { return Error.Render("✗") }
func GetWarnMark() string  { return Warning.Render("⚠") }
func GetInfoMark() string  { return Secondary.Render("ℹ") }
func GetBullet() string    { return Muted.Render("•") }

func FormatKeyValue(key, value string) string {
	return Dim.Render(key+": ") + value
}

// FormatStatus prefixes message with the mark of status
// (success, error, warning or info).
func FormatStatus(status, message string) string {
	mark := GetBullet()
	switch status {
	case "success":
		mark = GetCheckMark()
	case "error":
		mark = GetCrossMark()
	case "warning":
		mark = GetWarnMark()
	case "info":
		mark = GetInfoMark()
	}
	return mark + " " + message
}

// FangColorScheme maps the palette onto fang's help and error output.
func FangColorScheme(c lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           c(lipgloss.Color("#1C1917"), ColorText),
		Title:          ColorPrimary,
		Description:    ColorTextDim,
		Codeblock:      c(lipgloss.Color("#F5F5F4"), lipgloss.Color("#292524")),
		Program:        ColorPrimary,
		DimmedArgument: ColorMuted,
		Comment:        ColorMuted,
		Flag:           ColorSecondary,
		FlagDefault:    ColorTextDim,
		Command:        ColorHighlight,
		QuotedString:   ColorSecondary,
		Argument:       c(lipgloss.Color("#1C1917"), ColorText),
		Help:           ColorTextDim,
		Dash:           ColorMuted,
		ErrorHeader:    [2]color.Color{ColorText, ColorError},
		ErrorDetails:   ColorError,
	}
}

const BannerASCII = `
                 _
 _ __   ___  ___| | ____ _  ___ _ __
| '_ \ / _ \/ __| |/ / _` + "`" + ` |/ _ \ '_ \
| | | |  __/ (__|   < (_| |  __/ | | |
|_| |_|\___|\___|_|\_\__, |\___|_| |_|
                     |___/
`

func RenderGradientBanner(banner string) string {
	return Title.Render(banner)
}

func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, RenderGradientBanner(BannerASCII))
}
