// Package record implements RecordBatch, the engine's unit of vectorized
// data flow, grounded on the teacher's row/tuple abstractions
// (server/innodb/basic/row.go family) but reshaped into the columnar,
// schema-carrying batch spec.md §3 describes.
package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// RecordBatch pairs a schema with one equal-length column per field.
// row_count is fields[0].Len(); a zero-column batch reports a row count of
// 0. Batches are immutable once built.
type RecordBatch struct {
	Schema  *types.Schema
	Columns []vector.ColumnVector
}

func New(schema *types.Schema, columns []vector.ColumnVector) *RecordBatch {
	return &RecordBatch{Schema: schema, Columns: columns}
}

// RowCount returns the shared length of every column, or 0 for a
// zero-column batch.
func (b *RecordBatch) RowCount() int {
	if len(b.Columns) == 0 {
		return 0
	}
	return b.Columns[0].Len()
}

// Column returns the i-th column.
func (b *RecordBatch) Column(i int) vector.ColumnVector {
	return b.Columns[i]
}

// ColumnByName returns the column backing the first field named name, or
// nil if there is none.
func (b *RecordBatch) ColumnByName(name string) vector.ColumnVector {
	idx := b.Schema.IndexOf(name)
	if idx < 0 {
		return nil
	}
	return b.Columns[idx]
}

func (b *RecordBatch) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "RecordBatch(rows=%d, schema=[%s])", b.RowCount(), b.Schema.String())
	return sb.String()
}

// ToCSV writes one line per row, comma-separated and CRLF-terminated, with
// no header and no quoting -- the CSV source's own dialect, per spec.md §6
// and the §8 testable property that to_csv(B) round-trips through the CSV
// source for all-Utf8, comma/newline-free batches.
func (b *RecordBatch) ToCSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	rows := b.RowCount()
	cols := len(b.Columns)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				if _, err := bw.WriteString(","); err != nil {
					return err
				}
			}
			v, ok := b.Columns[c].Value(r)
			if ok {
				if _, err := bw.WriteString(fmt.Sprintf("%v", v)); err != nil {
					return err
				}
			}
		}
		if _, err := bw.WriteString("\r\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// BatchIterator is a lazy, single-pass, finite sequence of record batches
// pulled one at a time by the operator above it, per spec.md §5's
// single-threaded, pull-based execution model. Next returns io.EOF once
// exhausted. Close releases any underlying resource (an open file, for
// instance) and must be safe to call more than once.
type BatchIterator interface {
	Next() (*RecordBatch, error)
	Close() error
}

// sliceIterator adapts a pre-built []*RecordBatch (the in-memory source's
// shape) into a BatchIterator.
type sliceIterator struct {
	batches []*RecordBatch
	pos     int
}

// NewSliceIterator returns a BatchIterator over a fixed slice of batches.
func NewSliceIterator(batches []*RecordBatch) BatchIterator {
	return &sliceIterator{batches: batches}
}

func (it *sliceIterator) Next() (*RecordBatch, error) {
	if it.pos >= len(it.batches) {
		return nil, io.EOF
	}
	b := it.batches[it.pos]
	it.pos++
	return b, nil
}

func (it *sliceIterator) Close() error { return nil }
