package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/neckgen-cli/internal/apperr"
	"github.com/idlab-discover/neckgen-cli/internal/form"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
	"github.com/idlab-discover/neckgen-cli/internal/visibility"
)

var (
	paramsFamily string
	paramsAll    bool
	paramsJSON   bool
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "List the instrument parameters",
	Long:  "Lists every parameter of the registry grouped by form section, with its type, default and range, and whether it is shown or calculated for the chosen instrument family.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()

		values := reg.Defaults()
		if paramsFamily != "" {
			def, _ := reg.Lookup(registry.InstrumentFamily)
			v, err := registry.Parse(def, paramsFamily)
			if err != nil {
				return apperr.Userf("invalid --family: %v", err)
			}
			values[registry.InstrumentFamily] = v
		}

		if paramsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(reg.All())
		}

		layout, err := formLayout()
		if err != nil {
			return err
		}
		eval := visibility.New(reg)
		h := form.Render(reg, values, form.Callbacks{})

		var groups []string
		params := map[string][]ui.ParamInfo{}
		for _, g := range layout.Groups(reg, h) {
			groups = append(groups, g.Title)
			for _, c := range g.Controls {
				def := c.Def()
				st := eval.State(def, values)
				if !paramsAll && !st.Visible {
					continue
				}
				params[g.Title] = append(params[g.Title], paramInfo(def, st))
			}
		}

		family, _ := values.Family()
		ui.NewReportUI(cmd.OutOrStdout(), false).PrintParams(string(family), groups, params)
		return nil
	},
}

func paramInfo(def registry.ParameterDefinition, st visibility.State) ui.ParamInfo {
	info := ui.ParamInfo{
		Name:       string(def.Key),
		Label:      def.Label,
		Type:       string(def.Type),
		Visible:    st.Visible,
		Calculated: st.Output,
	}
	if def.HasInput() {
		info.Default = registry.FormatInput(def, def.Default)
		if def.Unit != "" && def.Type == registry.TypeNumber {
			info.Default += " " + def.Unit
		}
	}
	if def.Type == registry.TypeNumber && def.HasMin && def.HasMax {
		info.Range = fmt.Sprintf("%s–%s", registry.FormatInput(def, def.Min), registry.FormatInput(def, def.Max))
	}
	return info
}

func init() {
	paramsCmd.Flags().StringVar(&paramsFamily, "family", "", "Instrument family: VIOLIN|VIOL|GUITAR_MANDOLIN")
	paramsCmd.Flags().BoolVar(&paramsAll, "all", false, "Include parameters hidden for the family")
	paramsCmd.Flags().BoolVar(&paramsJSON, "json", false, "Print the raw parameter definitions as JSON")
}
