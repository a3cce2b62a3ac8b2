package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/neckgen-cli/internal/designer"
	paramio "github.com/idlab-discover/neckgen-cli/internal/io"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var (
	designSource sourceFlags
	designOutput string
	designSaveAs string
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Edit the parameters in the live designer",
	Long:  "Opens the interactive designer. Every edit recalculates the geometry after a short pause; calculated values update in place. Press ctrl+s to save and quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		values, err := designSource.load(reg)
		if err != nil {
			return err
		}
		calc, err := newCalculator(reg)
		if err != nil {
			return err
		}
		layout, err := formLayout()
		if err != nil {
			return err
		}
		// The package loggers would write over the full-screen view.
		if err := wireLogging(nil); err != nil {
			return err
		}

		final, err := designer.Run(context.Background(), designer.Options{
			Registry:   reg,
			Values:     values,
			Calculator: calc,
			Layout:     layout,
			Config:     orchestratorConfig(),
			ExportDir:  viper.GetString("export.dir"),
		})
		if err != nil {
			return err
		}
		return saveValues(cmd, reg, final, designOutput, designSaveAs)
	},
}

// saveValues writes values to a document, a profile, or both.
func saveValues(cmd *cobra.Command, reg *registry.Registry, values registry.ValueSet, output, profile string) error {
	if output == "" && profile == "" {
		output = "parameters.json"
	}
	if output != "" {
		if err := paramio.WriteParameters(output, paramio.NewDocument(values, nil), "auto"); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Parameters written to "+output))
	}
	if profile != "" {
		if err := saveProfile(newStore(reg), profile, values, false); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Profile saved as "+profile))
	}
	return nil
}

func init() {
	designSource.register(designCmd)
	designCmd.Flags().StringVarP(&designOutput, "output", "o", "", "Write the final parameters to this document")
	designCmd.Flags().StringVar(&designSaveAs, "save-as", "", "Save the final parameters as a named profile")
}
