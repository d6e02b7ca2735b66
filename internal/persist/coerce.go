package persist

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// truthy reports whether a decoded JSON value counts as set: null, false,
// zero, NaN and the empty string do not; objects and arrays always do.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}

// scalarString stringifies a set scalar.
// Unset values and structured values (objects, arrays) report false.
func scalarString(v any) (string, bool) {
	if !truthy(v) {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return "true", true
	case json.Number:
		return formatNumber(val), true
	default:
		return "", false
	}
}

// formatNumber renders a JSON number without exponent or trailing zeros,
// so 5, 5.0 and 5e0 all become "5".
func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// millis converts a set number, or a numeric string, to epoch milliseconds.
// Fractions are truncated.
func millis(v any) (int64, bool) {
	if !truthy(v) {
		return 0, false
	}

	var f float64
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		// true coerces to 1
		return 1, true
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// kindOf names a decoded JSON value's type for log messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
