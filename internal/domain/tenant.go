package domain

import "context"

// VectorIndex answers nearest-neighbour queries for one domain.
// Results are sorted by non-decreasing distance, ties broken by
// ascending id, length at most k.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, k int) ([]RankedMatch, error)
}

// RecordStore reads record metadata for one domain. Ids with no stored
// record are omitted from the result, never an error.
type RecordStore interface {
	FetchByIDs(ctx context.Context, ids []int64) (map[int64]Record, error)
}

// Tenant bundles the per-domain handles resolved by the registry.
type Tenant struct {
	Domain  Domain
	Index   VectorIndex
	Records RecordStore
}
