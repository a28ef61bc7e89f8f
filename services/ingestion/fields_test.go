package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeeklyOccurrences(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2015, 1, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       int64
	}{
		{"same day", day(5), day(5), 1},
		{"under a week", day(5), day(10), 1},
		{"exactly one week", day(5), day(12), 2},
		{"four weeks out", day(5), day(5 + 28), 5},
		{"end before start", day(12), day(5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, weeklyOccurrences(tt.start, tt.end))
		})
	}
}

func TestIsPublished(t *testing.T) {
	tests := []struct {
		name string
		node map[string]any
		want bool
	}{
		{"string one", map[string]any{"status": "1"}, true},
		{"string zero", map[string]any{"status": "0"}, false},
		{"number", map[string]any{"status": float64(1)}, true},
		{"bool", map[string]any{"status": true}, true},
		{"missing", map[string]any{}, false},
		{"garbage", map[string]any{"status": "soon"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isPublished(tt.node))
		})
	}
}

func TestExplicitWeeks(t *testing.T) {
	require.Nil(t, explicitWeeks(map[string]any{}))
	require.Nil(t, explicitWeeks(map[string]any{"field_course_required_weeks": "0"}))
	require.Nil(t, explicitWeeks(map[string]any{"field_course_required_weeks": "several"}))

	got := explicitWeeks(map[string]any{"field_course_required_weeks": "6"})
	require.NotNil(t, got)
	require.Equal(t, int64(6), *got)

	got = explicitWeeks(map[string]any{"field_course_required_weeks": float64(4)})
	require.NotNil(t, got)
	require.Equal(t, int64(4), *got)
}

func TestUnixField(t *testing.T) {
	node := map[string]any{"start": "1420416000", "bad": "someday"}

	got := unixField(node, "start")
	require.NotNil(t, got)
	require.Equal(t, time.Date(2015, 1, 5, 0, 0, 0, 0, time.UTC), *got)

	require.Nil(t, unixField(node, "bad"))
	require.Nil(t, unixField(node, "missing"))
}

func TestNestedFieldsTolerateEmptyArrays(t *testing.T) {
	// the upstream API serializes empty objects as empty arrays
	require.Empty(t, nestedURL([]any{}))
	require.Empty(t, nestedValue([]any{}))
	require.Empty(t, nestedTitle([]any{}))
	require.Empty(t, listField(map[string]any{"refs": map[string]any{}}, "refs"))
}

func TestLastURLSegment(t *testing.T) {
	require.Equal(t, "demo-course", lastURLSegment("https://example.com/course/demo-course"))
	require.Equal(t, "plain", lastURLSegment("plain"))
}
