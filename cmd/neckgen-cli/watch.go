package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/engine"
	paramio "github.com/idlab-discover/neckgen-cli/internal/io"
	"github.com/idlab-discover/neckgen-cli/internal/orchestrator"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

var (
	watchInput   string
	watchFormat  string
	watchNoViews bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recalculate whenever a parameter document changes",
	Long:  "Watches a parameter document. Every save is fed to the recomputation loop; bursts of saves are debounced into one calculation, whose key measurements are logged and whose views are written to the export directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchInput == "" {
			return apperr.User("--input is required")
		}
		log, err := newSlogLogger()
		if err != nil {
			return err
		}
		path, err := filepath.Abs(watchInput)
		if err != nil {
			return err
		}

		reg := registry.Default()
		values, _, err := paramio.ReadParameters(path, watchFormat, reg)
		if err != nil {
			return err
		}
		calc, err := newCalculator(reg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		loop := orchestrator.NewLoop(orchestrator.New(reg, orchestratorConfig()), calc, nil)
		loop.Timeout = viper.GetDuration("recompute.timeout")
		dir := viper.GetString("export.dir")
		if cmd.Flags().Changed("output") {
			dir, _ = cmd.Flags().GetString("output")
		}
		r := &watchReporter{log: log, reg: reg, dir: dir, views: !watchNoViews}
		loop.OnChange = r.report

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		// Editors often replace the file, so the directory is watched.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
		}

		errc := make(chan error, 1)
		go func() { errc <- loop.Run(ctx) }()
		if err := loop.Load(values); err != nil {
			return err
		}
		log.Info("watching", "file", path, "delay", viper.GetDuration("recompute.delay"))

		for {
			select {
			case <-ctx.Done():
				log.Info("stopped")
				return nil
			case err := <-errc:
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Name != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				values, _, err := paramio.ReadParameters(path, watchFormat, reg)
				if err != nil {
					// A save in progress can leave a partial document.
					log.Warn("document not loaded", "err", err)
					continue
				}
				log.Debug("document changed", "op", ev.Op.String())
				if err := loop.Load(values); err != nil {
					return err
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Error("watcher", "err", err)
			}
		}
	},
}

// watchReporter logs state transitions of the loop and writes the views of
// every successful calculation.
type watchReporter struct {
	log   *slog.Logger
	reg   *registry.Registry
	dir   string
	views bool

	prev     orchestrator.State
	messages []orchestrator.Message
}

func (r *watchReporter) report(s orchestrator.Snapshot) {
	defer func() { r.prev = s.State }()

	if s.State == orchestrator.Calculating && r.prev != orchestrator.Calculating {
		r.log.Debug("calculating", "calculations", s.Calculations, "dropped", s.Dropped)
	}
	if !slices.Equal(s.Messages, r.messages) {
		r.messages = slices.Clone(s.Messages)
		for _, m := range s.Messages {
			r.log.Warn(m.Text, "kind", m.Kind.String())
		}
	}
	if r.prev != orchestrator.Calculating || s.State == orchestrator.Calculating {
		return
	}
	for _, m := range s.Messages {
		if !m.Kind.Transient() {
			r.log.Error("calculation failed", "errors", len(s.Messages))
			return
		}
	}

	attrs := []any{"calculations", s.Calculations}
	family := r.reg.ActiveFamily(s.Values)
	for _, km := range r.reg.KeyMeasurements() {
		key := km.KeyFor(family)
		attrs = append(attrs, string(key), s.Derived[key].Format())
	}
	r.log.Info("calculated", attrs...)
	for _, w := range s.Warnings {
		r.log.Warn(w)
	}

	if !r.views {
		return
	}
	for view, artifact := range s.Views {
		path := filepath.Join(r.dir, view+engine.ViewExt(view))
		if err := paramio.WriteView(path, artifact); err != nil {
			r.log.Error("write view", "view", view, "err", err)
			continue
		}
		r.log.Debug("wrote view", "path", path)
	}
}

func init() {
	watchCmd.Flags().StringVarP(&watchInput, "input", "i", "", "Parameter document to watch (required)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "Parameter document format: json|yaml|auto")
	watchCmd.Flags().StringP("output", "o", "", "Directory for the rendered views (default dist)")
	watchCmd.Flags().BoolVar(&watchNoViews, "no-views", false, "Only log results, do not write views")
	watchCmd.Flags().Duration("delay", 0, "Debounce delay between a save and the recalculation")

	viper.BindPFlag("recompute.delay", watchCmd.Flags().Lookup("delay"))
}
