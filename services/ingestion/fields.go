package ingestion

import (
	"strconv"
	"strings"
	"time"
)

// Accessors for raw node records. The upstream API represents empty
// nested objects as empty arrays, so every nested lookup tolerates a
// non-map value.

func stringField(node map[string]any, key string) string {
	value, _ := node[key].(string)
	return value
}

func boolField(node map[string]any, key string) bool {
	value, _ := node[key].(bool)
	return value
}

// nestedURL retrieves the `url` field nested in the given value, if
// it exists.
func nestedURL(value any) string {
	nested, _ := value.(map[string]any)
	url, _ := nested["url"].(string)
	return url
}

// nestedValue retrieves the `value` field nested in the given value,
// if it exists.
func nestedValue(value any) string {
	nested, _ := value.(map[string]any)
	inner, _ := nested["value"].(string)
	return inner
}

// nestedTitle retrieves the `title` field nested in the given value,
// if it exists.
func nestedTitle(value any) string {
	nested, _ := value.(map[string]any)
	title, _ := nested["title"].(string)
	return title
}

// listField returns the nested records in a list-valued field.
func listField(node map[string]any, key string) []map[string]any {
	raw, _ := node[key].([]any)
	var records []map[string]any
	for _, item := range raw {
		if record, ok := item.(map[string]any); ok {
			records = append(records, record)
		}
	}
	return records
}

func stringList(value any) []string {
	raw, _ := value.([]any)
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// lastURLSegment returns the final path segment of a node URL, which
// the marketing site uses as the entity slug.
func lastURLSegment(url string) string {
	idx := strings.LastIndexByte(url, '/')
	return url[idx+1:]
}

// isPublished reads the node status flag, which travels as a "0"/"1"
// string.
func isPublished(node map[string]any) bool {
	switch v := node["status"].(type) {
	case string:
		n, err := strconv.Atoi(v)
		return err == nil && n != 0
	case float64:
		return v != 0
	case bool:
		return v
	default:
		return false
	}
}

// unixField parses a unix-seconds timestamp string field; absent or
// malformed values resolve to nil.
func unixField(node map[string]any, key string) *time.Time {
	raw := stringField(node, key)
	if raw == "" {
		return nil
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(seconds, 0).UTC()
	return &t
}

// weeklyOccurrences counts the weekly recurrences from start through
// end inclusive: start Monday week 1 through Monday week 5 is 5, not
// 4. An end before start counts zero.
func weeklyOccurrences(start, end time.Time) int64 {
	if end.Before(start) {
		return 0
	}
	const week = 7 * 24 * time.Hour
	return int64(end.Sub(start)/week) + 1
}
