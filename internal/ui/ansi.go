package ui

// Raw ANSI codes for the package loggers. They write plain lines to any
// io.Writer and do not render through lipgloss.
const (
	Reset     = "\033[0m"
	FgRed     = "\033[31m"
	FgGreen   = "\033[32m"
	FgYellow  = "\033[33m"
	FgMagenta = "\033[35m"
	FgCyan    = "\033[36m"
)

// Color wraps s in code and a reset.
func Color(s, code string) string { return code + s + Reset }
