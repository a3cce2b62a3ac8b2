package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/engine"
	"github.com/idlab-discover/neckgen-cli/internal/form"
	paramio "github.com/idlab-discover/neckgen-cli/internal/io"
	"github.com/idlab-discover/neckgen-cli/internal/orchestrator"
	"github.com/idlab-discover/neckgen-cli/internal/preset"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/store"
)

// sourceFlags are the shared ways of choosing starting values.
type sourceFlags struct {
	input   string
	format  string
	preset  string
	profile string
	sets    []string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "Parameter document to start from (json|yaml)")
	cmd.Flags().StringVarP(&s.format, "format", "f", "", "Parameter document format: json|yaml|auto")
	cmd.Flags().StringVarP(&s.preset, "preset", "p", "", "Built-in preset to start from (see 'presets')")
	cmd.Flags().StringVar(&s.profile, "profile", "", "Saved profile to start from (see 'profile list')")
	cmd.Flags().StringArrayVar(&s.sets, "set", nil, "Override a parameter, e.g. --set vsl=330 (repeatable)")
}

// load resolves the starting values. At most one of input, preset and
// profile may be given; --set overrides are applied last.
func (s *sourceFlags) load(reg *registry.Registry) (registry.ValueSet, error) {
	chosen := 0
	for _, v := range []string{s.input, s.preset, s.profile} {
		if v != "" {
			chosen++
		}
	}
	if chosen > 1 {
		return nil, apperr.User("use only one of --input, --preset and --profile")
	}

	var values registry.ValueSet
	var err error
	switch {
	case s.input != "":
		values, _, err = paramio.ReadParameters(s.input, s.format, reg)
	case s.preset != "":
		values, err = preset.Builtin().Load(s.preset, reg)
	case s.profile != "":
		values, err = newStore(reg).Load(s.profile)
	default:
		values = reg.Defaults()
	}
	if err != nil {
		return nil, err
	}
	return applySets(reg, values, s.sets)
}

// applySets parses key=value overrides with the registry types.
func applySets(reg *registry.Registry, values registry.ValueSet, sets []string) (registry.ValueSet, error) {
	for _, kv := range sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, apperr.Userf("invalid --set %q (expected key=value)", kv)
		}
		def, found := reg.Lookup(registry.Key(strings.TrimSpace(k)))
		if !found || !def.HasInput() {
			return nil, apperr.Userf("unknown parameter %q", strings.TrimSpace(k))
		}
		parsed, err := registry.Parse(def, v)
		if err != nil {
			return nil, apperr.Userf("invalid --set %q: %v", kv, err)
		}
		values[def.Key] = parsed
	}
	return values, nil
}

// newCalculator builds the engine selected by engine.mode.
func newCalculator(reg *registry.Registry) (engine.Calculator, error) {
	mode := strings.ToLower(strings.TrimSpace(viper.GetString("engine.mode")))
	switch mode {
	case "", "local":
		return engine.NewLocal(reg), nil
	case "remote":
		url := viper.GetString("engine.url")
		if url == "" {
			return nil, apperr.User("engine.mode=remote requires --engine-url or engine.url")
		}
		return engine.NewRemote(url, viper.GetDuration("engine.timeout"), viper.GetString("engine.token")), nil
	default:
		return nil, fmt.Errorf("invalid engine mode %q (expected local|remote)", mode)
	}
}

func orchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Delay:        viper.GetDuration("recompute.delay"),
		DismissAfter: viper.GetDuration("validation.dismiss"),
		Context:      viper.GetString("generator.context"),
	}
}

func formLayout() (form.Layout, error) {
	return form.LayoutFor(viper.GetString("form.layout"))
}

func newStore(reg *registry.Registry) *store.FileStore {
	return store.NewOSStore(viper.GetString("store.dir"), reg)
}

// calculate runs one request through the configured engine.
func calculate(ctx context.Context, calc engine.Calculator, values registry.ValueSet) (*engine.Result, error) {
	return calc.Calculate(ctx, engine.Request{
		Parameters: values,
		Context:    viper.GetString("generator.context"),
	})
}

// newSlogLogger builds the structured logger of the long-running commands.
func newSlogLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	switch format := viper.GetString("log.format"); format {
	case "", "pretty":
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (expected text|pretty)", format)
	}
}
