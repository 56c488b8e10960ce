package physicalplan

import (
	"github.com/colquery/colquery/physicalexpr"
	"github.com/colquery/colquery/queryerr"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// SelectionExec filters each child batch by a Boolean predicate, keeping
// input order and schema, per spec.md §4.6. Empty batches pass through as
// empty batches rather than being dropped.
type SelectionExec struct {
	Input     PhysicalPlan
	Predicate physicalexpr.PhysicalExpr
}

func NewSelectionExec(input PhysicalPlan, predicate physicalexpr.PhysicalExpr) *SelectionExec {
	return &SelectionExec{Input: input, Predicate: predicate}
}

func (e *SelectionExec) Schema() *types.Schema    { return e.Input.Schema() }
func (e *SelectionExec) Children() []PhysicalPlan { return []PhysicalPlan{e.Input} }
func (e *SelectionExec) String() string           { return "SelectionExec: " + e.Predicate.String() }

func (e *SelectionExec) Execute() (record.BatchIterator, error) {
	child, err := e.Input.Execute()
	if err != nil {
		return nil, err
	}
	return &selectionIterator{input: child, predicate: e.Predicate}, nil
}

type selectionIterator struct {
	input     record.BatchIterator
	predicate physicalexpr.PhysicalExpr
}

func (it *selectionIterator) Next() (*record.RecordBatch, error) {
	batch, err := it.input.Next()
	if err != nil {
		return nil, err
	}

	mask, err := it.predicate.Evaluate(batch)
	if err != nil {
		return nil, err
	}
	if mask.Type() != types.Boolean {
		return nil, &queryerr.TypeMismatchError{Left: mask.Type(), Right: types.Boolean}
	}

	cols := make([]vector.ColumnVector, len(batch.Columns))
	for ci, col := range batch.Columns {
		builder := vector.NewBuilder(col.Type())
		for ri := 0; ri < col.Len(); ri++ {
			keep, ok := mask.Value(ri)
			if !ok || !keep.(bool) {
				continue
			}
			v, ok := col.Value(ri)
			if !ok {
				builder.Append(nil)
				continue
			}
			builder.Append(v)
		}
		cols[ci] = builder.Build()
	}
	return record.New(batch.Schema, cols), nil
}

func (it *selectionIterator) Close() error { return it.input.Close() }
