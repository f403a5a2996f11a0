// Package simsearch is an embedded client for tenant-scoped similarity
// search over Redis. It wires the same components the HTTP server uses:
// a vector index and record keyspace per domain, an embedding provider,
// and a per-session cache of the last ranked result set.
package simsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/averlane/simsearch/internal/db"
	dbRedis "github.com/averlane/simsearch/internal/db/redis"
	"github.com/averlane/simsearch/internal/domain"
	"github.com/averlane/simsearch/internal/metrics"
	"github.com/averlane/simsearch/internal/registry"
	"github.com/averlane/simsearch/internal/repository/embcache"
	sessionrepo "github.com/averlane/simsearch/internal/repository/session"
	openaiEmb "github.com/averlane/simsearch/internal/transport/openai"
	searchuc "github.com/averlane/simsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the simsearch SDK entry point.
type Client struct {
	store db.Store
	reg   *registry.Registry
	svc   *searchuc.Service
}

// New creates a simsearch Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dimensions: domain.DefaultDimensions,
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("simsearch: database address required (use WithRedis)")
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("simsearch: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("simsearch: database not ready: %w", err)
	}

	return wireClient(store, cfg, embedder), nil
}

func buildEmbedder(cfg *clientConfig) (domain.Embedder, error) {
	if cfg.embedder != nil {
		return &embedderAdapter{inner: cfg.embedder}, nil
	}
	if cfg.openaiAPIKey == "" {
		return nil, errors.New("simsearch: embedding provider required (use WithOpenAI or WithEmbedder)")
	}
	return openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.openaiAPIKey,
		BaseURL:    cfg.openaiBaseURL,
		Model:      cfg.model,
		Dimensions: cfg.dimensions,
		Logger:     cfg.logger,
	}), nil
}

func wireClient(store db.Store, cfg *clientConfig, embedder domain.Embedder) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.cacheOff {
		embedder = embcache.New(embedder, store, metrics.EmbeddingCacheTotal, logger)
	}

	reg := registry.New(store, cfg.dimensions, logger)
	sessions := sessionrepo.New(store)

	return &Client{
		store: store,
		reg:   reg,
		svc:   searchuc.New(reg, embedder, sessions),
	}
}

// Bootstrap creates the vector index for every known domain. Safe to
// call repeatedly; existing indexes are left alone.
func (c *Client) Bootstrap(ctx context.Context) error {
	if err := c.reg.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	return nil
}

// Search runs a similarity search in the given domain and caches the
// ranked result set under sessionID. Returns the first page.
func (c *Client) Search(ctx context.Context, dom, keyword, sessionID string) (Page, error) {
	page, err := c.svc.Search(ctx, dom, keyword, sessionID)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return fromPage(page), nil
}

// Paginate serves a page of the session's last result set without
// re-running the search.
func (c *Client) Paginate(ctx context.Context, sessionID string, page int) (Page, error) {
	p, err := c.svc.Paginate(ctx, sessionID, page)
	if err != nil {
		return Page{}, fmt.Errorf("paginate: %w", err)
	}
	return fromPage(p), nil
}

// Domains returns the known tenant domains.
func (c *Client) Domains() []string {
	all := domain.All()
	out := make([]string, len(all))
	for i, d := range all {
		out[i] = d.String()
	}
	return out
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// embedderAdapter bridges the public Embedder to the internal contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("%w: %v", domain.ErrEncodingFailure, err)
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}
