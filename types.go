package simsearch

import (
	"context"
	"time"

	"github.com/averlane/simsearch/internal/domain"
	searchuc "github.com/averlane/simsearch/internal/usecase/search"
)

// Sentinel errors, usable with errors.Is on any SDK call.
var (
	// ErrUnknownDomain means the domain is not one of the known tenants.
	ErrUnknownDomain = domain.ErrUnknownDomain
	// ErrEncodingFailure means the keyword could not be vectorized.
	ErrEncodingFailure = domain.ErrEncodingFailure
	// ErrIndexUnavailable means the tenant's vector index is missing or
	// unreachable.
	ErrIndexUnavailable = domain.ErrIndexUnavailable
	// ErrNoActiveSearch means the session has no cached result set to
	// paginate.
	ErrNoActiveSearch = domain.ErrNoActiveSearch
)

// Embedder vectorizes text. Plug in a custom provider via WithEmbedder.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Result is one joined match: record metadata plus its distance from
// the query vector. Smaller distance means a closer match.
type Result struct {
	ID        int64
	Text      string
	Author    string
	CreatedAt time.Time
	Distance  float64
}

// Page is one page of results from a search or a paginate call.
type Page struct {
	Number     int
	TotalPages int
	Results    []Result
}

func fromPage(p searchuc.Page) Page {
	results := make([]Result, len(p.Results))
	for i, sr := range p.Results {
		results[i] = Result{
			ID:        sr.Record.ID,
			Text:      sr.Record.Text,
			Author:    sr.Record.Author,
			CreatedAt: sr.Record.CreatedAt,
			Distance:  sr.Distance,
		}
	}
	return Page{
		Number:     p.Number,
		TotalPages: p.TotalPages,
		Results:    results,
	}
}
