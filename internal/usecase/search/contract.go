package search

import (
	"context"

	"github.com/averlane/simsearch/internal/domain"
)

// Registry resolves a domain identifier to its tenant handles.
type Registry interface {
	Resolve(domainID string) (domain.Tenant, error)
}

// Embedder vectorizes query text. Implementations wrap provider
// failures in domain.ErrEncodingFailure.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Sessions is the per-session cache of the last ranked result set.
type Sessions interface {
	Put(ctx context.Context, sessionID string, dom domain.Domain, matches []domain.RankedMatch) error
	Get(ctx context.Context, sessionID string) (domain.Domain, []domain.RankedMatch, error)
}
