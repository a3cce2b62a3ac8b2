package registry

import (
	"math"
	"strconv"
	"strings"
)

// ValueSet maps parameter keys to their current value. Values are float64,
// bool or string once coerced against the registry.
type ValueSet map[Key]any

// Clone returns a shallow copy; values are immutable scalars.
func (v ValueSet) Clone() ValueSet {
	out := make(ValueSet, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// Equal reports whether both sets hold the same keys with equal values.
func (v ValueSet) Equal(o ValueSet) bool {
	if len(v) != len(o) {
		return false
	}
	for k, a := range v {
		b, ok := o[k]
		if !ok || !valuesEqual(a, b) {
			return false
		}
	}
	return true
}

func (v ValueSet) Number(key Key) (float64, bool) {
	x, ok := v[key]
	if !ok || x == nil {
		return 0, false
	}
	return toFloat(x)
}

func (v ValueSet) Bool(key Key) (bool, bool) {
	x, ok := v[key]
	if !ok || x == nil {
		return false, false
	}
	switch t := x.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

func (v ValueSet) String(key Key) (string, bool) {
	x, ok := v[key]
	if !ok || x == nil {
		return "", false
	}
	s, ok := x.(string)
	return s, ok
}

// Family returns the instrument family held by the set, if any.
func (v ValueSet) Family() (Family, bool) {
	switch t := v[InstrumentFamily].(type) {
	case Family:
		return t, t != ""
	case string:
		return Family(t), t != ""
	default:
		return "", false
	}
}

func toFloat(x any) (float64, bool) {
	switch t := x.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

// valuesEqual compares registry values, treating every numeric type alike
// and Family values as their string form.
func valuesEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		if !ok {
			return false
		}
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	}
	return normalize(a) == normalize(b)
}

func normalize(x any) any {
	if f, ok := x.(Family); ok {
		return string(f)
	}
	return x
}
