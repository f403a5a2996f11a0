package record

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/averlane/simsearch/internal/domain"
)

// Hash field names for record metadata.
const (
	FieldText      = "text"
	FieldAuthor    = "author"
	FieldCreatedAt = "created_at"
)

// store is the consumer interface for record reads (ISP).
type store interface {
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Key returns the record hash key for one id.
func Key(dom domain.Domain, id int64) string {
	return fmt.Sprintf("%s%s:rec:%d", domain.KeyPrefix, dom, id)
}

// Repo is the record metadata handle for one domain.
type Repo struct {
	store store
	dom   domain.Domain
}

// New creates a record repository bound to one domain.
func New(s store, dom domain.Domain) *Repo {
	return &Repo{store: s, dom: dom}
}

// FetchByIDs returns the records present for the given ids. Ids with no
// stored record are omitted: the vector index and the record keyspace
// are populated independently and may drift, and the join step treats a
// miss as "no displayable record", not a failure.
func (r *Repo) FetchByIDs(ctx context.Context, ids []int64) (map[int64]domain.Record, error) {
	if len(ids) == 0 {
		return map[int64]domain.Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = Key(r.dom, id)
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch records %s: %w", r.dom, err)
	}

	records := make(map[int64]domain.Record, len(maps))
	for i, fields := range maps {
		if len(fields) == 0 {
			continue // join miss
		}
		records[ids[i]] = parseRecord(ids[i], fields)
	}
	return records, nil
}

func parseRecord(id int64, fields map[string]string) domain.Record {
	rec := domain.Record{
		ID:     id,
		Text:   fields[FieldText],
		Author: fields[FieldAuthor],
	}
	if ts, err := time.Parse(domain.TimeLayout, fields[FieldCreatedAt]); err == nil {
		rec.CreatedAt = ts
	}
	return rec
}

// Fields serializes a record into its hash representation. Used by the
// population job; the query path never writes.
func Fields(rec domain.Record) map[string]string {
	return map[string]string{
		FieldText:      rec.Text,
		FieldAuthor:    rec.Author,
		FieldCreatedAt: rec.CreatedAt.Format(domain.TimeLayout),
	}
}

// ParseID extracts the numeric id from a record key suffix.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse record id %q: %w", s, err)
	}
	return id, nil
}
