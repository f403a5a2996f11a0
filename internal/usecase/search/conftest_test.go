package search

import (
	"context"
	"fmt"
	"time"

	"github.com/averlane/simsearch/internal/domain"
)

// --- Mocks ---

type mockIndex struct {
	matches []domain.RankedMatch
	err     error
	calls   int
	lastK   int
}

func (m *mockIndex) Query(_ context.Context, _ []float32, k int) ([]domain.RankedMatch, error) {
	m.calls++
	m.lastK = k
	return m.matches, m.err
}

type mockRecords struct {
	records map[int64]domain.Record
	err     error
	calls   int
	lastIDs []int64
}

func (m *mockRecords) FetchByIDs(_ context.Context, ids []int64) (map[int64]domain.Record, error) {
	m.calls++
	m.lastIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[int64]domain.Record, len(ids))
	for _, id := range ids {
		if rec, ok := m.records[id]; ok {
			out[id] = rec
		}
	}
	return out, nil
}

type mockRegistry struct {
	index   *mockIndex
	records *mockRecords
}

func (m *mockRegistry) Resolve(id string) (domain.Tenant, error) {
	dom, err := domain.Parse(id)
	if err != nil {
		return domain.Tenant{}, err
	}
	return domain.Tenant{Domain: dom, Index: m.index, Records: m.records}, nil
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockSessions struct {
	dom      domain.Domain
	matches  []domain.RankedMatch
	has      bool
	putCalls int
	getCalls int
}

func (m *mockSessions) Put(_ context.Context, _ string, dom domain.Domain, matches []domain.RankedMatch) error {
	m.putCalls++
	m.dom = dom
	m.matches = matches
	m.has = true
	return nil
}

func (m *mockSessions) Get(_ context.Context, _ string) (domain.Domain, []domain.RankedMatch, error) {
	m.getCalls++
	if !m.has {
		return "", nil, domain.ErrNoActiveSearch
	}
	return m.dom, m.matches, nil
}

// --- Fixtures ---

// makeMatches returns n matches with ids 1..n and strictly increasing
// distances.
func makeMatches(n int) []domain.RankedMatch {
	matches := make([]domain.RankedMatch, n)
	for i := range matches {
		matches[i] = domain.RankedMatch{ID: int64(i + 1), Distance: float64(i+1) / 10}
	}
	return matches
}

// makeRecords returns records for every id in matches.
func makeRecords(matches []domain.RankedMatch) map[int64]domain.Record {
	records := make(map[int64]domain.Record, len(matches))
	for _, m := range matches {
		records[m.ID] = domain.Record{
			ID:        m.ID,
			Text:      fmt.Sprintf("record %d", m.ID),
			Author:    "tester",
			CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return records
}

func newTestService(matches []domain.RankedMatch) (*Service, *mockRegistry, *mockEmbedder, *mockSessions) {
	reg := &mockRegistry{
		index:   &mockIndex{matches: matches},
		records: &mockRecords{records: makeRecords(matches)},
	}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2, 0.3}}
	sessions := &mockSessions{}
	return New(reg, embed, sessions), reg, embed, sessions
}
