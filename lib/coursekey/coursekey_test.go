package coursekey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		raw       string
		expected  RunKey
		courseKey string
		wantErr   bool
	}{
		{
			raw:       "course-v1:MITx+6.002x+2T2024",
			expected:  RunKey{Org: "MITx", Course: "6.002x", Run: "2T2024"},
			courseKey: "MITx+6.002x",
		},
		{
			raw:       "HarvardX/CS50/2012",
			expected:  RunKey{Org: "HarvardX", Course: "CS50", Run: "2012"},
			courseKey: "HarvardX+CS50",
		},
		{
			raw:     "course-v1:MITx+6.002x",
			wantErr: true,
		},
		{
			raw:     "course-v1:MITx++2T2024",
			wantErr: true,
		},
		{
			raw:     "not-a-key",
			wantErr: true,
		},
		{
			raw:     "",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			key, err := Parse(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.expected, key); diff != "" {
				t.Fatal(diff)
			}
			if key.CourseKey() != tc.courseKey {
				t.Fatalf("expected course key %q, got %q", tc.courseKey, key.CourseKey())
			}
		})
	}
}

func TestString(t *testing.T) {
	key, err := Parse("HarvardX/CS50/2012")
	if err != nil {
		t.Fatal(err)
	}
	if key.String() != "course-v1:HarvardX+CS50+2012" {
		t.Fatalf("unexpected round trip: %s", key)
	}
}
