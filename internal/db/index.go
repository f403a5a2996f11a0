package db

import "errors"

// IndexFieldType enumerates FT schema field types.
type IndexFieldType string

const (
	IndexFieldNumeric IndexFieldType = "NUMERIC"
	IndexFieldVector  IndexFieldType = "VECTOR"
)

// DistanceMetric enumerates vector distance metrics.
type DistanceMetric string

// DistanceL2 is Euclidean distance. Population and query must use the
// same metric or ranking is meaningless.
const DistanceL2 DistanceMetric = "L2"

// IndexField is one field of an FT index schema.
type IndexField struct {
	Name            string
	Type            IndexFieldType
	VectorDim       int
	VectorDistance  DistanceMetric
	VectorBlockSize int
}

// IndexDefinition describes an FT index over hash keys.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks the definition for completeness.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required")
		}
		if f.Type == IndexFieldVector {
			if f.VectorDim <= 0 {
				return errors.New("vector dimension must be positive")
			}
			if f.VectorDistance == "" {
				return errors.New("vector distance metric is required")
			}
		}
	}
	return nil
}
