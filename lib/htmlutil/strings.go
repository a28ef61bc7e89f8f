package htmlutil

import (
	stdhtml "html"
)

// CleanStrings walks a raw decoded JSON value and sanitizes every
// string it contains: HTML entities are decoded and whitespace is
// trimmed and collapsed. Maps and slices are rebuilt so the input is
// not mutated.
func CleanStrings(value any) any {
	switch v := value.(type) {
	case string:
		return normalizeSpace(stdhtml.UnescapeString(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[key] = CleanStrings(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = CleanStrings(inner)
		}
		return out
	default:
		return value
	}
}

// CleanNode is CleanStrings specialized for a raw node record.
func CleanNode(node map[string]any) map[string]any {
	return CleanStrings(node).(map[string]any)
}
