package drupal

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRemainingPages(t *testing.T) {
	testCases := []struct {
		name     string
		first    string
		last     string
		expected []int
		wantErr  bool
	}{
		{
			name:     "four pages",
			first:    "https://example.com/node.json?page=0",
			last:     "https://example.com/node.json?page=3",
			expected: []int{1, 2, 3},
		},
		{
			name:     "single page",
			first:    "https://example.com/node.json?page=0",
			last:     "https://example.com/node.json?page=0",
			expected: nil,
		},
		{
			name:     "two pages",
			first:    "https://example.com/node.json?type=course&page=0",
			last:     "https://example.com/node.json?type=course&page=1",
			expected: []int{1},
		},
		{
			name:    "missing page parameter",
			first:   "https://example.com/node.json",
			last:    "https://example.com/node.json?page=3",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pages, err := remainingPages(tc.first, tc.last)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, pages); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func pageIDs(page *Page) []string {
	ids := make([]string, len(page.List))
	for i, node := range page.List {
		ids[i] = node["uuid"].(string)
	}
	return ids
}

func TestIngestNodesSerialized(t *testing.T) {
	site := &mockSite{username: "admin", password: "hunter2", pages: nodePages(4, 2)}
	_, client := site.start(t)

	var seen []string
	err := client.IngestNodes(
		context.Background(),
		NodeQuery{Type: "course"},
		SerializedFetch(2),
		func(ctx context.Context, page *Page) error {
			// all processing happens on the calling goroutine, so no
			// locking is needed here
			seen = append(seen, pageIDs(page)...)
			return nil
		},
	)
	require.NoError(t, err)

	var expected []string
	for p := 0; p < 4; p++ {
		for i := 0; i < 2; i++ {
			expected = append(expected, fmt.Sprintf("uuid-%d-%d", p, i))
		}
	}
	// pages are processed in submission order, not arrival order
	require.Equal(t, expected, seen)
}

func TestIngestNodesSinglePage(t *testing.T) {
	site := &mockSite{username: "admin", password: "hunter2", pages: nodePages(1, 3)}
	_, client := site.start(t)

	processed := 0
	err := client.IngestNodes(
		context.Background(),
		NodeQuery{Type: "subject"},
		SerializedFetch(2),
		func(ctx context.Context, page *Page) error {
			processed++
			return nil
		},
	)
	require.NoError(t, err)
	require.Equal(t, 1, processed)
}

func TestIngestNodesAbortsOnPageError(t *testing.T) {
	site := &mockSite{
		username:   "admin",
		password:   "hunter2",
		pages:      nodePages(4, 1),
		failPage:   2,
		failStatus: http.StatusInternalServerError,
	}
	_, client := site.start(t)

	var processed []string
	err := client.IngestNodes(
		context.Background(),
		NodeQuery{Type: "course"},
		SerializedFetch(2),
		func(ctx context.Context, page *Page) error {
			processed = append(processed, pageIDs(page)...)
			return nil
		},
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
	// pages 0 and 1 made it through before the failing future
	require.Equal(t, []string{"uuid-0-0", "uuid-1-0"}, processed)
}

func TestIngestNodesProcessInWorker(t *testing.T) {
	site := &mockSite{username: "admin", password: "hunter2", pages: nodePages(4, 2)}
	_, client := site.start(t)

	var mu sync.Mutex
	seen := map[string]int{}
	err := client.IngestNodes(
		context.Background(),
		NodeQuery{Type: "course"},
		ProcessInWorker(3),
		func(ctx context.Context, page *Page) error {
			mu.Lock()
			defer mu.Unlock()
			for _, id := range pageIDs(page) {
				seen[id]++
			}
			return nil
		},
	)
	require.NoError(t, err)

	require.Len(t, seen, 8)
	for id, count := range seen {
		require.Equal(t, 1, count, "page node %s processed more than once", id)
	}
}
