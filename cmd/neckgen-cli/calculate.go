package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/neckgen-cli/internal/engine"
	"github.com/idlab-discover/neckgen-cli/internal/registry"
	"github.com/idlab-discover/neckgen-cli/internal/ui"
)

var (
	calculateSource sourceFlags
	calculateJSON   bool
	calculateAll    bool
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the neck geometry once",
	Long:  "Runs one calculation for a parameter document, preset or profile and prints the key measurements and the derived dimensions. Use --json to print the raw engine result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		values, err := calculateSource.load(reg)
		if err != nil {
			return err
		}
		calc, err := newCalculator(reg)
		if err != nil {
			return err
		}

		var spin *ui.Spinner
		if !calculateJSON && !isQuiet() {
			spin = ui.NewSpinner(cmd.ErrOrStderr(), "Calculating geometry")
			spin.Start()
		}
		res, err := calculate(context.Background(), calc, values)
		if spin != nil {
			switch {
			case err != nil:
				spin.Stop(false, err.Error())
			case !res.Success:
				spin.Stop(false, "Calculation failed")
			default:
				spin.Stop(true, fmt.Sprintf("Calculated %d value(s)", len(res.DerivedValues)))
			}
		}
		if err != nil {
			return err
		}

		if calculateJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return err
			}
		} else {
			ms, rows := report(reg, values, res, calculateAll)
			var notices []ui.Notice
			for _, e := range res.Errors {
				notices = append(notices, ui.Notice{Kind: "calculation", Text: e})
			}
			name, _ := values.String(registry.InstrumentName)
			ui.NewReportUI(cmd.OutOrStdout(), false).PrintResult(name, ms, rows, notices, res.Warnings)
		}

		if !res.Success {
			return fmt.Errorf("calculation failed with %d error(s)", len(res.Errors))
		}
		return nil
	},
}

// report converts a result to key measurements and table rows. Hidden
// derived values are included only when all is set.
func report(reg *registry.Registry, values registry.ValueSet, res *engine.Result, all bool) ([]ui.Measurement, []ui.Row) {
	family := reg.ActiveFamily(values)
	core := engine.CoreMetrics(reg, values)

	var ms []ui.Measurement
	for _, km := range reg.KeyMeasurements() {
		key := km.KeyFor(family)
		dv, ok := res.DerivedValues[key]
		if !ok {
			dv = core[key]
		}
		label := dv.DisplayName
		if label == "" {
			label = string(key)
		}
		ms = append(ms, ui.Measurement{Label: label, Value: dv.Format(), Primary: km.Primary})
	}

	var rows []ui.Row
	for _, dv := range engine.Sorted(res.DerivedValues) {
		if !dv.Visible && !all {
			continue
		}
		rows = append(rows, ui.Row{Category: dv.Category, Label: dv.DisplayName, Value: dv.Format(), Calculated: true})
	}
	return ms, rows
}

func init() {
	calculateSource.register(calculateCmd)
	calculateCmd.Flags().BoolVar(&calculateJSON, "json", false, "Print the engine result as JSON")
	calculateCmd.Flags().BoolVar(&calculateAll, "all", false, "Include internal derived values in the table")
}
