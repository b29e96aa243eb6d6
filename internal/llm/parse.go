package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnparsable means no JSON object could be recovered from a completion.
var ErrUnparsable = errors.New("completion is not a JSON object")

// ParseCompletion decodes a completion as a JSON object. When strict decoding
// fails it retries on the span from the first '{' to the last '}'.
func ParseCompletion(text string) (map[string]any, error) {
	if m, ok := decodeObject(text); ok {
		return m, nil
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end > start {
		if m, ok := decodeObject(text[start : end+1]); ok {
			return m, nil
		}
	}
	return nil, ErrUnparsable
}

func decodeObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
