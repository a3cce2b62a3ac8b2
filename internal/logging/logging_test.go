package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

func TestLogger_Enabled(t *testing.T) {
	var l Logger
	if l.Enabled() {
		t.Fatalf("logger without writer reports enabled")
	}
	var buf bytes.Buffer
	l.SetWriter(&buf)
	if !l.Enabled() {
		t.Fatalf("logger with writer reports disabled")
	}
	l.SetWriter(nil)
	l.Logf("vsl", "x")
	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote %q", buf.String())
	}

	var nilLogger *Logger
	if nilLogger.Enabled() {
		t.Fatalf("nil logger reports enabled")
	}
	nilLogger.Logf("vsl", "x")
}

func TestLogger_Logf(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		field   string
		subject string
		want    string
	}{
		{"subject", "Form:", "param", "  vsl  ", "Form: param=vsl changed to 330\n"},
		{"blank subject", "Form:", "param", "   ", "Form: changed to 330\n"},
		{"quoted subject", "Store:", "profile", "my cello", "Store: profile=\"my cello\" changed to 330\n"},
		{"defaults", "", "", "vsl", "Log: subject=vsl changed to 330\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := &Logger{Writer: &buf, PrefixText: tt.prefix, Field: tt.field}
			l.Logf(tt.subject, "changed to %d", 330)
			if got := buf.String(); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogger_LogfColoursPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "Engine:", PrefixColor: ui.FgCyan}
	l.Logf("", "ready")
	if !strings.HasPrefix(buf.String(), ui.Color("Engine:", ui.FgCyan)) {
		t.Fatalf("prefix not coloured: %q", buf.String())
	}
}

func TestLogger_ConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Writer: &buf, PrefixText: "X:"}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Logf("", "line")
		}()
	}
	wg.Wait()
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if line != "X: line" {
			t.Fatalf("interleaved line %q", line)
		}
	}
}
