package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/averlane/simsearch/internal/db"
)

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index by name.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name"
// means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	args := []string{idx.Name, "ON", "HASH"}

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		f := &idx.Fields[i]
		switch f.Type {
		case db.IndexFieldNumeric:
			args = append(args, f.Name, "NUMERIC")
		case db.IndexFieldVector:
			args = append(args, buildVectorFieldArgs(f)...)
		default:
			return nil, errors.New("unsupported field type " + string(f.Type))
		}
	}

	return args, nil
}

// buildVectorFieldArgs emits a FLAT vector field. FLAT gives exact KNN,
// which keeps ranking reproducible for the bounded K this service uses.
func buildVectorFieldArgs(f *db.IndexField) []string {
	params := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(f.VectorDim),
		"DISTANCE_METRIC", string(f.VectorDistance),
	}
	if f.VectorBlockSize > 0 {
		params = append(params, "BLOCK_SIZE", strconv.Itoa(f.VectorBlockSize))
	}
	args := []string{f.Name, "VECTOR", "FLAT", strconv.Itoa(len(params))}
	return append(args, params...)
}
