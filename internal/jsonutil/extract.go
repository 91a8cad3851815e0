// Package jsonutil extracts JSON from free-text model output.
//
// Language models often wrap the JSON they were asked for in prose or code
// fences. The helpers here take the span between the first opening brace
// and the last closing brace and decode it, reporting failure
// through a boolean instead of an error so call sites can fall back to a
// deterministic value.
package jsonutil

import (
	"encoding/json"
	"strings"
)

// ExtractObject returns the substring from the first '{' to the last '}'.
func ExtractObject(output string) (string, bool) {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start >= 0 && end > start {
		return output[start : end+1], true
	}
	return "", false
}

// DecodeObject extracts the first top-level JSON object from output and
// decodes it into a T. ok is false when no object is found or it does not decode.
func DecodeObject[T any](output string) (T, bool) {
	var zero T
	raw, found := ExtractObject(output)
	if !found {
		return zero, false
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return zero, false
	}
	return v, true
}
