package physicalplan

import (
	"fmt"
	"io"

	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// LimitExec truncates the child's rows to the first N overall, across batch
// boundaries. It has no counterpart in the source this engine was distilled
// from; the logical Limit node's open question of whether to add a physical
// operator is resolved here in favor of implementing it, since a Limit that
// never limits physical execution would be a silent no-op in practice.
type LimitExec struct {
	Input PhysicalPlan
	N     int
}

func NewLimitExec(input PhysicalPlan, n int) *LimitExec {
	return &LimitExec{Input: input, N: n}
}

func (e *LimitExec) Schema() *types.Schema    { return e.Input.Schema() }
func (e *LimitExec) Children() []PhysicalPlan { return []PhysicalPlan{e.Input} }
func (e *LimitExec) String() string           { return fmt.Sprintf("LimitExec: %d", e.N) }

func (e *LimitExec) Execute() (record.BatchIterator, error) {
	child, err := e.Input.Execute()
	if err != nil {
		return nil, err
	}
	return &limitIterator{input: child, remaining: e.N}, nil
}

type limitIterator struct {
	input     record.BatchIterator
	remaining int
}

func (it *limitIterator) Next() (*record.RecordBatch, error) {
	if it.remaining <= 0 {
		return nil, io.EOF
	}
	batch, err := it.input.Next()
	if err != nil {
		return nil, err
	}
	if batch.RowCount() <= it.remaining {
		it.remaining -= batch.RowCount()
		return batch, nil
	}

	cols := make([]vector.ColumnVector, len(batch.Columns))
	for i, col := range batch.Columns {
		builder := vector.NewBuilder(col.Type())
		for r := 0; r < it.remaining; r++ {
			v, ok := col.Value(r)
			if !ok {
				builder.Append(nil)
				continue
			}
			builder.Append(v)
		}
		cols[i] = builder.Build()
	}
	it.remaining = 0
	return record.New(batch.Schema, cols), nil
}

func (it *limitIterator) Close() error { return it.input.Close() }
