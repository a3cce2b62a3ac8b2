package io

import (
	stdio "io"

	"github.com/idlab-discover/neckgen-cli/internal/logging"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "IO:", PrefixColor: ui.FgYellow, Field: "file"}

// SetLogger sets an optional destination for import/export logs.
func SetLogger(w stdio.Writer) { logger.SetWriter(w) }

func logf(path string, format string, args ...any) {
	logger.Logf(path, format, args...)
}
