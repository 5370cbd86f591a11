package utils

import (
	"encoding/json"
	"math"
)

// ToFloat64 converts various numeric types to float64.
// Returns the converted value and true if successful, or 0 and false if conversion fails.
// Supports the Go numeric kinds and json.Number. NaN and ±Inf are rejected.
func ToFloat64(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToFloat64Slice converts a decoded JSON array to float64 values. It stops at
// the first element that is not a finite number and returns its index;
// badIndex is -1 when every element converted.
func ToFloat64Slice(values []interface{}) (result []float64, badIndex int) {
	result = make([]float64, len(values))
	for i, v := range values {
		f, ok := ToFloat64(v)
		if !ok {
			return nil, i
		}
		result[i] = f
	}
	return result, -1
}

// IsNumeric checks if a value can be converted to float64.
func IsNumeric(v interface{}) bool {
	_, ok := ToFloat64(v)
	return ok
}
