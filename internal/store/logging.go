package store

import (
	"io"

	"github.com/idlab-discover/neckgen-cli/internal/logging"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Store:", PrefixColor: ui.FgYellow, Field: "profile"}

// SetLogger sets an optional destination for profile store logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(name string, format string, args ...any) {
	logger.Logf(name, format, args...)
}
