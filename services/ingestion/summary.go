package ingestion

import (
	"sort"
	"sync"
)

// Counts tallies node outcomes for one node type.
type Counts struct {
	Processed int
	Skipped   int
	Failed    int
}

// Summary aggregates per-node-type outcomes across a run. It is
// mutex-guarded so the process-in-worker strategy can share it.
type Summary struct {
	mu    sync.Mutex
	types map[string]*Counts
}

func NewSummary() *Summary {
	return &Summary{types: map[string]*Counts{}}
}

func (s *Summary) counts(nodeType string) *Counts {
	c, ok := s.types[nodeType]
	if !ok {
		c = &Counts{}
		s.types[nodeType] = c
	}
	return c
}

func (s *Summary) recordProcessed(nodeType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts(nodeType).Processed++
}

func (s *Summary) recordSkipped(nodeType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts(nodeType).Skipped++
}

func (s *Summary) recordFailed(nodeType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts(nodeType).Failed++
}

func (s *Summary) Get(nodeType string) Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.counts(nodeType)
}

type SummaryRow struct {
	NodeType string
	Counts
}

// Rows returns the tallies sorted by node type.
func (s *Summary) Rows() []SummaryRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]SummaryRow, 0, len(s.types))
	for nodeType, counts := range s.types {
		rows = append(rows, SummaryRow{NodeType: nodeType, Counts: *counts})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].NodeType < rows[j].NodeType
	})
	return rows
}
