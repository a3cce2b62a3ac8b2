package registry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coerce converts a loosely typed value (decoded JSON or YAML, a flag) to
// the registry type of def.
func Coerce(def ParameterDefinition, raw any) (any, error) {
	if raw == nil {
		return nil, fmt.Errorf("%s: value is empty", def.Key)
	}
	if s, ok := raw.(string); ok && def.Type != TypeString {
		return Parse(def, s)
	}
	switch def.Type {
	case TypeNumber:
		f, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("%s: %v is not a number", def.Key, raw)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%s: %v is not a finite number", def.Key, raw)
		}
		return f, nil
	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: %v is not a boolean", def.Key, raw)
		}
		return b, nil
	case TypeEnum:
		if f, ok := raw.(Family); ok {
			return string(f), nil
		}
		return nil, fmt.Errorf("%s: %v is not one of the options", def.Key, raw)
	case TypeString:
		switch t := raw.(type) {
		case string:
			return t, nil
		case fmt.Stringer:
			return t.String(), nil
		default:
			return fmt.Sprint(t), nil
		}
	default:
		return nil, fmt.Errorf("%s: unknown type %q", def.Key, def.Type)
	}
}

// Parse converts user text to the registry type of def.
func Parse(def ParameterDefinition, text string) (any, error) {
	s := strings.TrimSpace(text)
	switch def.Type {
	case TypeNumber:
		if s == "" {
			return nil, fmt.Errorf("%s value is empty", def.Label)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%s must be a number, got %q", def.Label, s)
		}
		return f, nil
	case TypeBoolean:
		switch strings.ToLower(s) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("%s must be true or false, got %q", def.Label, s)
	case TypeEnum:
		for _, o := range def.Options {
			if strings.EqualFold(o.Value, s) {
				return o.Value, nil
			}
		}
		return nil, fmt.Errorf("%s must be one of %s, got %q", def.Label, optionList(def), s)
	case TypeString:
		return text, nil
	default:
		return nil, fmt.Errorf("%s: unknown type %q", def.Key, def.Type)
	}
}

// Check validates a coerced value against the bounds, options and length of
// def and returns a user-facing message, or "" when the value is valid.
func Check(def ParameterDefinition, value any) string {
	switch def.Type {
	case TypeNumber:
		f, ok := toFloat(value)
		if !ok {
			return fmt.Sprintf("%s must be a number", def.Label)
		}
		if def.HasMin && f < def.Min {
			return fmt.Sprintf("%s must be at least %s", def.Label, withUnit(def.Min, def.Unit))
		}
		if def.HasMax && f > def.Max {
			return fmt.Sprintf("%s must be at most %s", def.Label, withUnit(def.Max, def.Unit))
		}
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("%s must be true or false", def.Label)
		}
	case TypeEnum:
		s, _ := value.(string)
		for _, o := range def.Options {
			if o.Value == s {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of %s", def.Label, optionList(def))
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("%s must be text", def.Label)
		}
		if def.MaxLength > 0 && len([]rune(s)) > def.MaxLength {
			return fmt.Sprintf("%s must be at most %d characters", def.Label, def.MaxLength)
		}
	}
	return ""
}

// FormatInput renders an input value the way a user would type it.
func FormatInput(def ParameterDefinition, value any) string {
	switch def.Type {
	case TypeNumber:
		if f, ok := toFloat(value); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	case TypeBoolean:
		if b, ok := value.(bool); ok {
			return strconv.FormatBool(b)
		}
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func withUnit(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	switch unit {
	case "", "fret #":
		return s
	case "°":
		return s + unit
	default:
		return s + " " + unit
	}
}

func optionList(def ParameterDefinition) string {
	vals := make([]string, 0, len(def.Options))
	for _, o := range def.Options {
		vals = append(vals, o.Value)
	}
	return strings.Join(vals, ", ")
}
