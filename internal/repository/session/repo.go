package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/averlane/simsearch/internal/db"
	"github.com/averlane/simsearch/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "sess:"

// store is the consumer interface for session persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// entry is the cached result set for one session. Exactly one entry
// exists per session; a new search replaces it wholesale.
type entry struct {
	Domain  domain.Domain        `json:"domain"`
	Matches []domain.RankedMatch `json:"matches"`
}

// Repo stores the last ranked result set per caller session. Entry
// lifetime is bound to the owning session; the cache imposes no TTL of
// its own.
type Repo struct {
	store store
}

// New creates a session cache repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put caches the ranked matches for a session, unconditionally replacing
// any prior entry. Last write wins.
func (r *Repo) Put(ctx context.Context, sessionID string, dom domain.Domain, matches []domain.RankedMatch) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}

	data, err := json.Marshal(entry{Domain: dom, Matches: matches})
	if err != nil {
		return fmt.Errorf("marshal session entry: %w", err)
	}

	if err := r.store.Set(ctx, keyPrefix+sessionID, data); err != nil {
		return fmt.Errorf("put session %s: %w", sessionID, err)
	}
	return nil
}

// Get returns the cached domain and ranked matches for a session.
// A session with no prior search yields domain.ErrNoActiveSearch.
func (r *Repo) Get(ctx context.Context, sessionID string) (domain.Domain, []domain.RankedMatch, error) {
	data, err := r.store.Get(ctx, keyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", nil, domain.ErrNoActiveSearch
		}
		return "", nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return e.Domain, e.Matches, nil
}
