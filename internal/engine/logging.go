package engine

import (
	"io"

	"github.com/idlab-discover/neckgen-cli/internal/logging"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Engine:", PrefixColor: ui.FgCyan, Field: "request"}

// SetLogger sets an optional destination for engine logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(requestID string, format string, args ...any) {
	logger.Logf(requestID, format, args...)
}
