package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/averlane/simsearch/internal/db"
	"github.com/averlane/simsearch/internal/domain"
)

// store is the consumer interface for KNN queries (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Name returns the FT index name for a domain.
func Name(dom domain.Domain) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, dom)
}

// KeyPrefix returns the vector hash key prefix for a domain.
func KeyPrefix(dom domain.Domain) string {
	return fmt.Sprintf("%s%s:vec:", domain.KeyPrefix, dom)
}

// VectorKey returns the vector hash key for one record id.
func VectorKey(dom domain.Domain, id int64) string {
	return KeyPrefix(dom) + strconv.FormatInt(id, 10)
}

// Definition returns the FT index definition for a domain: FLAT L2
// vector over the domain's vector hashes. The population job writes
// embeddings with the same metric, which is what makes ranking valid.
func Definition(dom domain.Domain, dims int) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     Name(dom),
		Prefixes: []string{KeyPrefix(dom)},
		Fields: []db.IndexField{
			{Name: "id", Type: db.IndexFieldNumeric},
			{Name: "embedding", Type: db.IndexFieldVector, VectorDim: dims, VectorDistance: db.DistanceL2},
		},
	}
}

// Repo is the vector index handle for one domain. The runtime query
// path is read-only; only the offline population job inserts vectors.
type Repo struct {
	store store
	dom   domain.Domain
}

// New creates a vector index repository bound to one domain.
func New(s store, dom domain.Domain) *Repo {
	return &Repo{store: s, dom: dom}
}

// Query runs a KNN search and returns at most k matches sorted by
// non-decreasing distance, ties broken by ascending id.
func (r *Repo) Query(ctx context.Context, vector []float32, k int) ([]domain.RankedMatch, error) {
	q := &db.KNNQuery{
		IndexName:    Name(r.dom),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"id"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexUnavailable, r.dom)
		}
		return nil, fmt.Errorf("query index %s: %w", r.dom, err)
	}

	matches := make([]domain.RankedMatch, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id, ok := entryID(entry, r.dom)
		if !ok {
			continue
		}
		matches = append(matches, domain.RankedMatch{ID: id, Distance: entry.Score})
	}

	// The index sorts by distance; re-sort stably with an explicit id
	// tie-break so equal distances rank deterministically.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// entryID extracts the record id from the returned "id" field, falling
// back to the key suffix.
func entryID(entry db.SearchEntry, dom domain.Domain) (int64, bool) {
	if s, ok := entry.Fields["id"]; ok {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return id, true
		}
	}
	suffix := strings.TrimPrefix(entry.Key, KeyPrefix(dom))
	id, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
