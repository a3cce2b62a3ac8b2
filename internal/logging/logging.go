// Package logging provides the opt-in debug logger shared by the internal
// packages. Each package keeps its own Logger with a coloured prefix and
// a subject column, and the commands switch them on with SetLogger.
package logging

import (
	"cmp"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

// Logger writes one line per call:
//
//	<prefix> <Field>=<subject> <message>
//
// The subject column is left out when subject is blank. A nil Logger or
// one without a Writer discards everything.
type Logger struct {
	Writer io.Writer

	PrefixText  string
	PrefixColor string

	// Field names the subject column ("param", "profile", ...).
	Field string

	mu sync.Mutex
}

func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	l.Writer = w
	l.mu.Unlock()
}

func (l *Logger) Enabled() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Writer != nil
}

func (l *Logger) Logf(subject string, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Writer == nil {
		return
	}

	var b strings.Builder
	prefix := cmp.Or(l.PrefixText, "Log:")
	if l.PrefixColor != "" {
		prefix = ui.Color(prefix, l.PrefixColor)
	}
	b.WriteString(prefix)
	if s := strings.TrimSpace(subject); s != "" {
		b.WriteByte(' ')
		b.WriteString(cmp.Or(l.Field, "subject"))
		b.WriteByte('=')
		if strings.ContainsAny(s, " \t\"=") {
			s = strconv.Quote(s)
		}
		b.WriteString(s)
	}
	b.WriteByte(' ')
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')
	io.WriteString(l.Writer, b.String())
}
