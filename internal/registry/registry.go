package registry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/averlane/simsearch/internal/db"
	"github.com/averlane/simsearch/internal/domain"
	indexrepo "github.com/averlane/simsearch/internal/repository/index"
	recordrepo "github.com/averlane/simsearch/internal/repository/record"
)

// store aggregates the operations tenant handles need (ISP).
type store interface {
	db.Searcher
	db.HashStore
	db.IndexManager
}

// Registry owns the per-tenant (vector index, record store) handles for
// the process lifetime. Handles are built once and shared read-only
// across all concurrent requests; Resolve is a pure map lookup.
type Registry struct {
	tenants map[domain.Domain]domain.Tenant
	store   store
	dims    int
	logger  *zap.Logger
}

// New builds the registry with one handle pair per known domain.
func New(s store, dims int, logger *zap.Logger) *Registry {
	tenants := make(map[domain.Domain]domain.Tenant, len(domain.All()))
	for _, dom := range domain.All() {
		tenants[dom] = domain.Tenant{
			Domain:  dom,
			Index:   indexrepo.New(s, dom),
			Records: recordrepo.New(s, dom),
		}
	}
	return &Registry{tenants: tenants, store: s, dims: dims, logger: logger}
}

// Resolve returns the tenant handles for a domain identifier,
// normalized case-insensitively. Identifiers outside the enumerated set
// fail with domain.ErrUnknownDomain.
func (r *Registry) Resolve(id string) (domain.Tenant, error) {
	dom, err := domain.Parse(id)
	if err != nil {
		return domain.Tenant{}, err
	}
	return r.tenants[dom], nil
}

// Bootstrap ensures each tenant's vector index exists. This runs once
// at startup as an explicit initialization step; nothing index-related
// happens implicitly per connection or per request.
func (r *Registry) Bootstrap(ctx context.Context) error {
	for _, dom := range domain.All() {
		def := indexrepo.Definition(dom, r.dims)

		err := r.store.CreateIndex(ctx, def)
		if errors.Is(err, db.ErrIndexExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("bootstrap index for %s: %w", dom, err)
		}
		r.logger.Info("Created vector index",
			zap.String("domain", dom.String()),
			zap.String("index", def.Name),
			zap.Int("dimensions", r.dims),
		)
	}
	return nil
}
