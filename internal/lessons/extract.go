package lessons

import "strings"

// ExtractJSON returns the span from the first '{' to the last '}' of text.
// Prose and code fences around a single JSON object are dropped; nothing
// is repaired.
func ExtractJSON(text string) ([]byte, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, false
	}
	return []byte(text[start : end+1]), true
}
