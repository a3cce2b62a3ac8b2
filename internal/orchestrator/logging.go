package orchestrator

import (
	"io"

	"github.com/idlab-discover/neckgen-cli/internal/logging"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Recompute:", PrefixColor: ui.FgGreen, Field: "request"}

// SetLogger sets an optional destination for orchestrator logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(subject string, format string, args ...any) {
	logger.Logf(subject, format, args...)
}
