package lattice

import "math"

// ToFloat converts any Go numeric value to float64.
func ToFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// IsNumber reports whether v is a non-NaN Go number.
func IsNumber(v Value) bool {
	f, ok := ToFloat(v)
	return ok && !math.IsNaN(f)
}
