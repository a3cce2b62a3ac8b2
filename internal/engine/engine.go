// Package engine defines the calculation engine contract and provides a
// local implementation plus an HTTP client and handler for running it
// remotely.
package engine

import (
	"context"
	"encoding/json"
	"math"
	"sort"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

// View names.
const (
	ViewSide           = "side"
	ViewCrossSection   = "cross_section"
	ViewDimensions     = "dimensions"
	ViewFretPositions  = "fret_positions"
	ViewRadiusTemplate = "radius_template"
)

// Views lists every view in display order.
func Views() []string {
	return []string{ViewSide, ViewCrossSection, ViewDimensions, ViewFretPositions, ViewRadiusTemplate}
}

// ViewExt returns the file extension of a view artifact.
func ViewExt(view string) string {
	switch view {
	case ViewDimensions, ViewFretPositions:
		return ".html"
	default:
		return ".svg"
	}
}

// Request is a snapshot of the parameters to calculate. Context is a free
// form string describing the caller; it ends up in diagram footers.
type Request struct {
	ID         string            `json:"id,omitempty"`
	Parameters registry.ValueSet `json:"parameters"`
	Context    string            `json:"context,omitempty"`
}

// Result is what an engine returns for one request.
type Result struct {
	Success       bool                          `json:"success"`
	Views         map[string]string             `json:"views,omitempty"`
	DerivedValues map[registry.Key]DerivedValue `json:"derived_values,omitempty"`
	Errors        []string                      `json:"errors"`
	// Warnings concern single views and do not fail the calculation.
	Warnings []string `json:"warnings,omitempty"`
}

// Calculator is the engine contract: a pure function of its input
// snapshot. Implementations must not retain or mutate req.Parameters.
type Calculator interface {
	Calculate(ctx context.Context, req Request) (*Result, error)
}

// CalculatorFunc adapts a function to Calculator.
type CalculatorFunc func(ctx context.Context, req Request) (*Result, error)

func (f CalculatorFunc) Calculate(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}

// DerivedValue is one calculated number with its display metadata.
// Value is nil when the calculation could not produce a finite number.
type DerivedValue struct {
	Key         registry.Key `json:"key"`
	Value       *float64     `json:"value"`
	DisplayName string       `json:"display_name"`
	Unit        string       `json:"unit,omitempty"`
	Decimals    int          `json:"decimals"`
	Category    string       `json:"category,omitempty"`
	Order       int          `json:"order"`
	Visible     bool         `json:"visible"`
}

// Format renders the value with its decimals and unit, or the placeholder.
func (d DerivedValue) Format() string {
	return registry.FormatValue(d.Value, d.Decimals, d.Unit)
}

// Float returns the value, or NaN when it is missing.
func (d DerivedValue) Float() float64 {
	if d.Value == nil {
		return math.NaN()
	}
	return *d.Value
}

// finite turns NaN and infinities into a missing value.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NewDerivedValue builds a derived value from the output metadata of def.
func NewDerivedValue(def registry.ParameterDefinition, v float64) DerivedValue {
	dv := DerivedValue{
		Key:         def.Key,
		Value:       finite(v),
		DisplayName: def.Label,
		Unit:        def.Unit,
	}
	if def.Output != nil {
		dv.Decimals = def.Output.Decimals
		dv.Category = def.Output.Category
		dv.Order = def.Output.Order
		dv.Visible = def.Output.Visible
	}
	return dv
}

// MarshalJSON keeps the JSON encodable when a value slipped through as
// NaN.
func (d DerivedValue) MarshalJSON() ([]byte, error) {
	type plain DerivedValue
	if d.Value != nil {
		d.Value = finite(*d.Value)
	}
	return json.Marshal(plain(d))
}

// Sorted returns the derived values ordered for display.
func Sorted(values map[registry.Key]DerivedValue) []DerivedValue {
	out := make([]DerivedValue, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Key < out[j].Key
	})
	return out
}
