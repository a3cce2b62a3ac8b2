package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/wizard"
)

var (
	editSource sourceFlags
	editOutput string
	editSaveAs string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Step through the parameters in a form wizard",
	Long:  "Asks for each editable parameter in form order, skipping the ones hidden or calculated for the chosen instrument family, and writes the result to a parameter document or a profile.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		values, err := editSource.load(reg)
		if err != nil {
			return err
		}
		layout, err := formLayout()
		if err != nil {
			return err
		}

		final, err := wizard.New(reg, values, layout).Run(context.Background())
		if err != nil {
			return err
		}
		output := editOutput
		if output == "" && editSaveAs == "" {
			output = editSource.input
		}
		return saveValues(cmd, reg, final, output, editSaveAs)
	},
}

func init() {
	editSource.register(editCmd)
	editCmd.Flags().StringVarP(&editOutput, "output", "o", "", "Write the parameters to this document (default: the input document)")
	editCmd.Flags().StringVar(&editSaveAs, "save-as", "", "Save the parameters as a named profile")
}
