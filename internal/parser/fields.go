package parser

import "math"

// GetString returns m[key] when it is a string, otherwise "".
func GetString(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

// LookupString is GetString that also reports whether a string was present.
func LookupString(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// maxExactInt is the largest integer a float64 holds without rounding.
const maxExactInt = 1 << 53

// GetInt returns m[key] as a non-negative int. encoding/json decodes numbers
// as float64; fractional, negative, non-numeric and missing values yield 0.
func GetInt(m map[string]any, key string) int {
	v, _ := LookupInt(m, key)
	return v
}

// LookupInt is GetInt that also reports whether the value was usable.
func LookupInt(m map[string]any, key string) (int, bool) {
	v, ok := m[key].(float64)
	if !ok || v < 0 || v > maxExactInt || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// LookupFloat returns m[key] when it is a JSON number.
func LookupFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}

// GetMap returns m[key] when it is a JSON object, otherwise nil.
func GetMap(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

// GetSlice returns m[key] when it is a JSON array, otherwise nil.
func GetSlice(m map[string]any, key string) []any {
	v, _ := m[key].([]any)
	return v
}
