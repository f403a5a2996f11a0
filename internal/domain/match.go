package domain

// MaxMatches caps every vector index query. Part of the observable API
// contract, as is PageSize.
const MaxMatches = 25

// PageSize is the fixed number of records per result page.
const PageSize = 5

// RankedMatch is an (id, distance) pair produced by a vector index query.
// Distance is non-negative; lower means more similar.
type RankedMatch struct {
	ID       int64   `json:"id"`
	Distance float64 `json:"distance"`
}

// ScoredRecord pairs a joined record with its query distance.
type ScoredRecord struct {
	Record   Record
	Distance float64
}

// TotalPages returns the page count for n ranked matches.
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}
