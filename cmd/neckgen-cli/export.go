package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/engine"
	paramio "github.com/idlab-discover/neckgen-cli/internal/io"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var (
	exportSource sourceFlags
	exportNoDoc  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the rendered views and the parameter document",
	Long:  "Calculates the geometry and writes every selected view (SVG drawings and HTML tables) plus the parameter document to the output directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		values, err := exportSource.load(reg)
		if err != nil {
			return err
		}
		calc, err := newCalculator(reg)
		if err != nil {
			return err
		}

		views, err := exportViews(viper.GetStringSlice("export.views"))
		if err != nil {
			return err
		}
		outputDir := filepath.Clean(viper.GetString("export.dir"))
		docFormat := viper.GetString("export.format")
		if docFormat == "" || docFormat == "auto" {
			docFormat = "json"
		}

		exportUI := ui.NewExportUI(cmd.OutOrStdout(), isQuiet())
		exportUI.Start(views, !exportNoDoc)
		defer exportUI.Finish()

		var res *engine.Result
		err = exportUI.Calculate(func() (string, error) {
			var err error
			res, err = calculate(context.Background(), calc, values)
			if err != nil {
				return "", err
			}
			if !res.Success {
				return "", fmt.Errorf("calculation failed: %s", strings.Join(res.Errors, "; "))
			}
			return fmt.Sprintf("%d derived value(s)", len(res.DerivedValues)), nil
		})
		if err != nil {
			return err
		}

		var written []string
		for _, view := range views {
			artifact := res.Views[view]
			if artifact == "" {
				exportUI.SkipView(view, "not rendered")
				continue
			}
			path := filepath.Join(outputDir, view+engine.ViewExt(view))
			err := exportUI.WriteView(view, func() (string, error) {
				return path, paramio.WriteView(path, artifact)
			})
			if err != nil {
				return err
			}
			written = append(written, path)
		}

		if !exportNoDoc {
			path := filepath.Join(outputDir, "parameters."+docFormat)
			err := exportUI.WriteDocument(func() (string, error) {
				doc := paramio.NewDocument(values, map[string]any{"views": views})
				return path, paramio.WriteParameters(path, doc, docFormat)
			})
			if err != nil {
				return err
			}
			written = append(written, path)
		}

		exportUI.Finish()
		for _, w := range res.Warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.GetWarnMark()+" "+ui.Warning.Render(w))
		}
		exportUI.PrintSummary(written, outputDir)
		return nil
	},
}

// exportViews validates the requested view names. An empty list selects
// every view.
func exportViews(requested []string) ([]string, error) {
	all := engine.Views()
	var out []string
	for _, v := range requested {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !slices.Contains(all, name) {
				return nil, apperr.Userf("unknown view %q (available: %s)", name, strings.Join(all, ", "))
			}
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	if len(out) == 0 {
		return all, nil
	}
	return out, nil
}

func init() {
	exportSource.register(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output directory (default dist)")
	exportCmd.Flags().StringSlice("views", nil, "Views to write: "+strings.Join(engine.Views(), ","))
	exportCmd.Flags().String("doc-format", "", "Parameter document format: json|yaml")
	exportCmd.Flags().BoolVar(&exportNoDoc, "no-document", false, "Do not write the parameter document")

	viper.BindPFlag("export.dir", exportCmd.Flags().Lookup("output"))
	viper.BindPFlag("export.views", exportCmd.Flags().Lookup("views"))
	viper.BindPFlag("export.format", exportCmd.Flags().Lookup("doc-format"))
}
