package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON parses a model response that is supposed to be a single JSON
// object but may be wrapped in preamble or trailing commentary. It first
// attempts a strict parse of the whole response, then falls back to the
// outermost balanced-looking {...} substring. The second return value
// reports whether a parse succeeded.
func ExtractJSON[T any](response string) (T, bool) {
	var result T

	if err := json.Unmarshal([]byte(response), &result); err == nil {
		return result, true
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		var zero T
		return zero, false
	}

	var retry T
	if err := json.Unmarshal([]byte(response[start:end+1]), &retry); err != nil {
		var zero T
		return zero, false
	}
	return retry, true
}
