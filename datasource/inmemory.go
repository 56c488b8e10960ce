package datasource

import (
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// InMemorySource is a DataSource backed by a fixed slice of already-built
// batches, per spec.md §6.
type InMemorySource struct {
	schema  *types.Schema
	batches []*record.RecordBatch
}

func NewInMemorySource(schema *types.Schema, batches []*record.RecordBatch) *InMemorySource {
	return &InMemorySource{schema: schema, batches: batches}
}

func (s *InMemorySource) Schema() *types.Schema { return s.schema }

// Scan projects each stored batch column-wise by the requested names (or
// returns them unprojected when projection is empty).
func (s *InMemorySource) Scan(projection []string) (record.BatchIterator, error) {
	if len(projection) == 0 {
		return record.NewSliceIterator(s.batches), nil
	}

	readSchema, err := s.schema.Select(projection)
	if err != nil {
		return nil, err
	}
	indices := make([]int, len(projection))
	for i, name := range projection {
		indices[i] = s.schema.IndexOf(name)
	}

	projected := make([]*record.RecordBatch, len(s.batches))
	for bi, b := range s.batches {
		cols := make([]vector.ColumnVector, len(indices))
		for ci, idx := range indices {
			cols[ci] = b.Column(idx)
		}
		projected[bi] = record.New(readSchema, cols)
	}
	return record.NewSliceIterator(projected), nil
}
