package form

import (
	"io"

	"github.com/idlab-discover/neckgen-cli/internal/logging"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Form:", PrefixColor: ui.FgMagenta, Field: "param"}

// SetLogger sets an optional destination for form logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(key string, format string, args ...any) {
	logger.Logf(key, format, args...)
}
