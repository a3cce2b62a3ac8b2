package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/neckgen-cli/internal/preset"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var (
	presetsSelect bool
	presetsOutput string
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in instrument presets",
	Long:  "Lists the built-in presets. With --select, pick one interactively and write it as a parameter document.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := preset.Builtin()
		presets, err := catalog.List()
		if err != nil {
			return err
		}

		if !presetsSelect {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Title.Render("Presets"))
			for _, p := range presets {
				fmt.Fprintf(out, "  %s %s %s %s\n", p.Icon, ui.Highlight.Render(p.ID),
					p.DisplayName, ui.Dim.Render("("+p.Family+")"))
				if p.Description != "" {
					fmt.Fprintln(out, "      "+ui.Muted.Render(p.Description))
				}
			}
			return nil
		}

		items := make([]ui.SelectorItem, len(presets))
		for i, p := range presets {
			items[i] = ui.SelectorItem{ID: p.ID, Name: p.DisplayName, Detail: p.Family}
		}
		id, err := ui.RunSelector("Choose a preset", items)
		if err != nil {
			return err
		}
		reg := registry.Default()
		values, err := catalog.Load(id, reg)
		if err != nil {
			return err
		}
		output := presetsOutput
		if output == "" {
			output = id + ".json"
		}
		return saveValues(cmd, reg, values, output, "")
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsSelect, "select", false, "Pick a preset and write it as a parameter document")
	presetsCmd.Flags().StringVarP(&presetsOutput, "output", "o", "", "Document to write with --select (default ID.json)")
}
