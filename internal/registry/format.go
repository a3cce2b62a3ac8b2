package registry

import (
	"math"
	"strconv"
)

// Placeholder is shown in place of a missing or non-finite number.
const Placeholder = "—"

// FormatValue renders a number with a fixed number of decimals and its unit.
// v may be a number, a *float64 or nil.
func FormatValue(v any, decimals int, unit string) string {
	if p, ok := v.(*float64); ok {
		if p == nil {
			return Placeholder
		}
		v = *p
	}
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return Placeholder
	}
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(f, 'f', decimals, 64)
	switch unit {
	case "":
		return s
	case "°":
		return s + unit
	default:
		return s + " " + unit
	}
}
