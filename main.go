package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"
	cmd "github.com/idlab-discover/neckgen-cli/cmd/neckgen-cli"
	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

// Version and Commit are set at build time with -ldflags.
var (
	Version = "dev"
	Commit  = ""
)

func main() {
	cmd.SetVersion(Version)
	if err := fang.Execute(
		context.Background(),
		cmd.GetRootCmd(),
		fang.WithColorSchemeFunc(ui.FangColorScheme),
		fang.WithVersion(Version),
		fang.WithCommit(Commit),
	); err != nil {
		// Leaving a prompt or the designer without saving is not a failure.
		if errors.Is(err, apperr.ErrCancelled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
