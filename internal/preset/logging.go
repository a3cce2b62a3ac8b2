package preset

import (
	"io"

	"github.com/idlab-discover/neckgen-cli/internal/logging"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Presets:", PrefixColor: ui.FgGreen, Field: "preset"}

// SetLogger sets an optional destination for preset logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(id string, format string, args ...any) {
	logger.Logf(id, format, args...)
}
