package physicalplan

import (
	"strings"

	"github.com/colquery/colquery/physicalexpr"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// ProjectionExec evaluates each expression against the child batch and
// assembles a new batch with the planner-computed schema, per spec.md §4.6.
type ProjectionExec struct {
	Input  PhysicalPlan
	Exprs  []physicalexpr.PhysicalExpr
	schema *types.Schema
}

func NewProjectionExec(input PhysicalPlan, exprs []physicalexpr.PhysicalExpr, schema *types.Schema) *ProjectionExec {
	return &ProjectionExec{Input: input, Exprs: exprs, schema: schema}
}

func (e *ProjectionExec) Schema() *types.Schema    { return e.schema }
func (e *ProjectionExec) Children() []PhysicalPlan { return []PhysicalPlan{e.Input} }

func (e *ProjectionExec) String() string {
	parts := make([]string, len(e.Exprs))
	for i, expr := range e.Exprs {
		parts[i] = expr.String()
	}
	return "ProjectionExec: " + strings.Join(parts, ", ")
}

func (e *ProjectionExec) Execute() (record.BatchIterator, error) {
	child, err := e.Input.Execute()
	if err != nil {
		return nil, err
	}
	return &projectionIterator{input: child, exprs: e.Exprs, schema: e.schema}, nil
}

type projectionIterator struct {
	input  record.BatchIterator
	exprs  []physicalexpr.PhysicalExpr
	schema *types.Schema
}

func (it *projectionIterator) Next() (*record.RecordBatch, error) {
	batch, err := it.input.Next()
	if err != nil {
		return nil, err
	}
	cols := make([]vector.ColumnVector, len(it.exprs))
	for i, expr := range it.exprs {
		col, err := expr.Evaluate(batch)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return record.New(it.schema, cols), nil
}

func (it *projectionIterator) Close() error { return it.input.Close() }
