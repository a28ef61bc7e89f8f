package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "empty",
			input:    "   ",
			expected: "",
		},
		{
			name:     "paragraphs",
			input:    "<p>first</p><p>second</p>",
			expected: "first\n\nsecond",
		},
		{
			name:     "heading kept as prefix",
			input:    "<h3>XSeries Program Overview</h3><p>Learn things.</p>",
			expected: "### XSeries Program Overview\n\nLearn things.",
		},
		{
			name:     "inline markup stripped",
			input:    "<p>some <strong>bold</strong> and <a href=\"#\">linked</a> text</p>",
			expected: "some bold and linked text",
		},
		{
			name:     "entities decoded",
			input:    "<p>fish &amp; chips</p>",
			expected: "fish & chips",
		},
		{
			name:     "script dropped",
			input:    "<p>visible</p><script>alert(1)</script>",
			expected: "visible",
		},
		{
			name:     "whitespace collapsed",
			input:    "<p>  too   much\n\n space </p>",
			expected: "too much space",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Clean(tc.input))
		})
	}
}

func TestCleanStrings(t *testing.T) {
	node := map[string]any{
		"title": "  Intro to   Chemistry ",
		"body": map[string]any{
			"value": "a &amp; b",
		},
		"tags":   []any{" one ", "two"},
		"weight": float64(3),
	}

	cleaned := CleanNode(node)

	require.Equal(t, "Intro to Chemistry", cleaned["title"])
	require.Equal(t, "a & b", cleaned["body"].(map[string]any)["value"])
	require.Equal(t, []any{"one", "two"}, cleaned["tags"])
	require.Equal(t, float64(3), cleaned["weight"])

	// input must not be mutated
	require.Equal(t, "  Intro to   Chemistry ", node["title"])
}
