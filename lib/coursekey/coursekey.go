// Package coursekey parses edX course run identifiers. Two formats
// are in circulation: the current "course-v1:Org+Course+Run" form and
// the legacy "Org/Course/Run" form.
package coursekey

import (
	"fmt"
	"strings"
)

const v1Prefix = "course-v1:"

// RunKey is a parsed course run identifier.
type RunKey struct {
	Org    string
	Course string
	Run    string
}

// Parse accepts either run key format. The raw string must carry all
// three segments with no empty parts.
func Parse(raw string) (RunKey, error) {
	raw = strings.TrimSpace(raw)

	var parts []string
	if trimmed, ok := strings.CutPrefix(raw, v1Prefix); ok {
		parts = strings.Split(trimmed, "+")
	} else {
		parts = strings.Split(raw, "/")
	}

	if len(parts) != 3 {
		return RunKey{}, fmt.Errorf("invalid course run key: %q", raw)
	}
	for _, part := range parts {
		if part == "" {
			return RunKey{}, fmt.Errorf("invalid course run key: %q", raw)
		}
	}

	return RunKey{Org: parts[0], Course: parts[1], Run: parts[2]}, nil
}

// CourseKey derives the parent course identity from a run key: the
// run segment is dropped.
func (k RunKey) CourseKey() string {
	return fmt.Sprintf("%s+%s", k.Org, k.Course)
}

func (k RunKey) String() string {
	return fmt.Sprintf("%s%s+%s+%s", v1Prefix, k.Org, k.Course, k.Run)
}
