package util

import (
	"encoding/json"
	"strconv"
)

// ToString converts a decoded JSON scalar to its string form.
// Handles string, float64, json.Number, int, int64 and bool.
// Returns "" for nil or unsupported types.
func ToString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
