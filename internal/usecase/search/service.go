package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/averlane/simsearch/internal/domain"
)

// Page is one page of joined search results.
type Page struct {
	Number     int
	TotalPages int
	Results    []domain.ScoredRecord
}

// Service drives a search end to end and serves pages from the cached
// ranked set.
type Service struct {
	registry Registry
	embed    Embedder
	sessions Sessions
}

// New creates a search service.
func New(registry Registry, embed Embedder, sessions Sessions) *Service {
	return &Service{registry: registry, embed: embed, sessions: sessions}
}

// Search runs one query: resolve the tenant, embed the keyword, KNN
// query capped at domain.MaxMatches, replace the session's cached
// result set wholesale, and return page 1.
func (s *Service) Search(ctx context.Context, domainID, keyword, sessionID string) (Page, error) {
	// Resolve first: an unknown domain must fail before any embedding
	// or index work happens.
	tenant, err := s.registry.Resolve(domainID)
	if err != nil {
		return Page{}, err
	}

	// Empty query text is rejected before encoding is attempted.
	if strings.TrimSpace(keyword) == "" {
		return Page{}, fmt.Errorf("%w: empty query text", domain.ErrEncodingFailure)
	}

	emb, err := s.embed.Embed(ctx, keyword)
	if err != nil {
		return Page{}, fmt.Errorf("vectorize query: %w", err)
	}

	matches, err := tenant.Index.Query(ctx, emb.Embedding, domain.MaxMatches)
	if err != nil {
		return Page{}, fmt.Errorf("query index: %w", err)
	}

	if err := s.sessions.Put(ctx, sessionID, tenant.Domain, matches); err != nil {
		return Page{}, fmt.Errorf("cache result set: %w", err)
	}

	return s.page(ctx, tenant, matches, 1)
}

// Paginate serves a page from the session's cached ranked set. The
// embedder and the vector index are never touched; ranking is whatever
// the last Search stored.
func (s *Service) Paginate(ctx context.Context, sessionID string, page int) (Page, error) {
	if page < 1 {
		page = 1
	}

	dom, matches, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Page{}, err
	}

	tenant, err := s.registry.Resolve(dom.String())
	if err != nil {
		return Page{}, err
	}

	return s.page(ctx, tenant, matches, page)
}

// page slices the ranked set and joins against record metadata,
// preserving rank order and dropping join misses. A start offset beyond
// the set yields an empty page, not an error. TotalPages is always
// computed over the full cached set.
func (s *Service) page(ctx context.Context, tenant domain.Tenant, matches []domain.RankedMatch, page int) (Page, error) {
	start := (page - 1) * domain.PageSize
	end := start + domain.PageSize

	var window []domain.RankedMatch
	if start < len(matches) {
		if end > len(matches) {
			end = len(matches)
		}
		window = matches[start:end]
	}

	ids := make([]int64, len(window))
	for i, m := range window {
		ids[i] = m.ID
	}

	records, err := tenant.Records.FetchByIDs(ctx, ids)
	if err != nil {
		return Page{}, fmt.Errorf("join records: %w", err)
	}

	results := make([]domain.ScoredRecord, 0, len(window))
	for _, m := range window {
		rec, ok := records[m.ID]
		if !ok {
			continue
		}
		results = append(results, domain.ScoredRecord{Record: rec, Distance: m.Distance})
	}

	return Page{
		Number:     page,
		TotalPages: domain.TotalPages(len(matches)),
		Results:    results,
	}, nil
}
