package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/neckgen-cli/internal/engine"
	"github.com/idlab-discover/neckgen-cli/internal/form"
	paramio "github.com/idlab-discover/neckgen-cli/internal/io"
	"github.com/idlab-discover/neckgen-cli/internal/orchestrator"
	"github.com/idlab-discover/neckgen-cli/internal/preset"
	"github.com/idlab-discover/neckgen-cli/internal/store"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "neckgen-cli",
	Short: "Parametric neck geometry for bowed and fretted instruments",
	Long:  longDescription,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		return wireLogging(cmd.ErrOrStderr())
	},

	// When invoked without a subcommand, show help (with banner) instead of
	// printing a plain usage output.
	RunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		return cmd.Help()
	},
}

var (
	cfgFile string
	version string
	quiet   bool
)

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// GetRootCmd returns the root command for use with fang
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.neckgen-cli.yaml or ./config/defaults.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output and package logs")
	rootCmd.PersistentFlags().String("log-level", "", "Log level for long-running commands: debug|info|warn|error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format for long-running commands: text|pretty")
	rootCmd.PersistentFlags().String("engine", "", "Calculation engine: local|remote")
	rootCmd.PersistentFlags().String("engine-url", "", "Base URL of a remote engine (see 'serve')")

	viper.BindPFlag("log.quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("engine.mode", rootCmd.PersistentFlags().Lookup("engine"))
	viper.BindPFlag("engine.url", rootCmd.PersistentFlags().Lookup("engine-url"))

	setDefaults()

	// Ensure `--help` (and help subcommands) show the banner consistently.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(paramsCmd, calculateCmd, exportCmd, designCmd, editCmd,
		profileCmd, presetsCmd, watchCmd, serveCmd)
}

func setDefaults() {
	viper.SetDefault("recompute.delay", orchestrator.DefaultDelay)
	viper.SetDefault("recompute.timeout", time.Duration(0))
	viper.SetDefault("validation.dismiss", orchestrator.DefaultDismissAfter)
	viper.SetDefault("engine.mode", "local")
	viper.SetDefault("engine.timeout", 30*time.Second)
	viper.SetDefault("form.layout", "sections")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "pretty")
	viper.SetDefault("export.dir", "dist")
	viper.SetDefault("export.views", engine.Views())
	viper.SetDefault("export.format", "json")
	viper.SetDefault("generator.context", "neckgen-cli")
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault("store.dir", filepath.Join(home, ".neckgen-cli", "profiles"))
	}
}

func initConfig() {
	// Environment variables override the config file, e.g.
	// NECKGEN_ENGINE_URL for engine.url and NECKGEN_RECOMPUTE_DELAY for
	// recompute.delay.
	viper.SetEnvPrefix("NECKGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		cobra.CheckErr(viper.ReadInConfig())
		printConfigUsed()
		return
	}

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	viper.AddConfigPath("./config")

	// Try .neckgen-cli first
	viper.SetConfigName(".neckgen-cli")
	err = viper.ReadInConfig()

	// If not found, try defaults.yaml
	notFound := viper.ConfigFileNotFoundError{}
	if err != nil && errors.As(err, &notFound) {
		viper.SetConfigName("defaults")
		err = viper.ReadInConfig()
	}

	switch {
	case err != nil && !errors.As(err, &notFound):
		cobra.CheckErr(err)
	case err != nil:
		// The config file is optional
	default:
		printConfigUsed()
	}
}

func printConfigUsed() {
	if viper.GetBool("log.quiet") {
		return
	}
	configMsg := ui.Dim.Render("Using config file: ") + ui.Secondary.Render(viper.ConfigFileUsed())
	fmt.Fprintln(os.Stderr, configMsg)
}

const longDescription = "Parametric neck geometry for violins, viols, guitars and mandolins. Computes the neck angle, string geometry and fingerboard dimensions from a small set of measurements and renders side, cross-section and template drawings."

func initUIAndBanner(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	cmd.Root().Long = ui.RenderGradientBanner(ui.BannerASCII) + "\n" + longDescription
}

// wireLogging routes the package loggers to w unless logging is quiet.
func wireLogging(w io.Writer) error {
	level := strings.ToLower(strings.TrimSpace(viper.GetString("log.level")))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level %q (expected debug|info|warn|error)", level)
	}
	if viper.GetBool("log.quiet") || level != "debug" {
		w = nil
	}
	form.SetLogger(w)
	engine.SetLogger(w)
	paramio.SetLogger(w)
	orchestrator.SetLogger(w)
	store.SetLogger(w)
	preset.SetLogger(w)
	return nil
}

// isQuiet reports whether progress output is suppressed.
func isQuiet() bool { return viper.GetBool("log.quiet") }
