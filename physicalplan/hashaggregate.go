package physicalplan

import (
	"fmt"
	"io"
	"strings"

	"github.com/colquery/colquery/physicalexpr"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/util"
	"github.com/colquery/colquery/vector"
)

// HashAggregateExec groups rows by group_exprs and folds aggr_exprs per
// group with a hash map keyed by group-key tuple, per spec.md §4.6. Group
// cardinality must fit in memory; there is no spilling.
type HashAggregateExec struct {
	Input      PhysicalPlan
	GroupExprs []physicalexpr.PhysicalExpr
	AggrExprs  []*physicalexpr.AggregateExpr
	schema     *types.Schema
}

func NewHashAggregateExec(input PhysicalPlan, groupExprs []physicalexpr.PhysicalExpr, aggrExprs []*physicalexpr.AggregateExpr, schema *types.Schema) *HashAggregateExec {
	return &HashAggregateExec{Input: input, GroupExprs: groupExprs, AggrExprs: aggrExprs, schema: schema}
}

func (e *HashAggregateExec) Schema() *types.Schema    { return e.schema }
func (e *HashAggregateExec) Children() []PhysicalPlan { return []PhysicalPlan{e.Input} }

func (e *HashAggregateExec) String() string {
	groups := make([]string, len(e.GroupExprs))
	for i, g := range e.GroupExprs {
		groups[i] = g.String()
	}
	aggrs := make([]string, len(e.AggrExprs))
	for i, a := range e.AggrExprs {
		aggrs[i] = a.String()
	}
	return fmt.Sprintf("HashAggregateExec: group_expr=%s, aggregate_expr=%s",
		strings.Join(groups, ", "), strings.Join(aggrs, ", "))
}

func (e *HashAggregateExec) Execute() (record.BatchIterator, error) {
	child, err := e.Input.Execute()
	if err != nil {
		return nil, err
	}
	return &hashAggregateIterator{
		input:      child,
		groupExprs: e.GroupExprs,
		aggrExprs:  e.AggrExprs,
		schema:     e.schema,
		buckets:    make(map[uint64][]*groupState),
	}, nil
}

type groupState struct {
	keyValues []any
	accs      []physicalexpr.Accumulator
}

type hashAggregateIterator struct {
	input      record.BatchIterator
	groupExprs []physicalexpr.PhysicalExpr
	aggrExprs  []*physicalexpr.AggregateExpr
	schema     *types.Schema

	buckets map[uint64][]*groupState
	groups  []*groupState
	emitted bool
}

func (it *hashAggregateIterator) Next() (*record.RecordBatch, error) {
	if it.emitted {
		return nil, io.EOF
	}

	for {
		batch, err := it.input.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := it.consume(batch); err != nil {
			return nil, err
		}
	}

	groupBuilders := make([]vector.Builder, len(it.groupExprs))
	for i := range it.groupExprs {
		groupBuilders[i] = vector.NewBuilder(it.schema.Field(i).DataType)
	}
	aggrBuilders := make([]vector.Builder, len(it.aggrExprs))
	for i, ae := range it.aggrExprs {
		aggrBuilders[i] = vector.NewBuilder(ae.OutputType())
	}

	for _, gs := range it.groups {
		for i, v := range gs.keyValues {
			groupBuilders[i].Append(v)
		}
		for i, acc := range gs.accs {
			aggrBuilders[i].Append(acc.Final())
		}
	}

	cols := make([]vector.ColumnVector, 0, len(groupBuilders)+len(aggrBuilders))
	for _, b := range groupBuilders {
		cols = append(cols, b.Build())
	}
	for _, b := range aggrBuilders {
		cols = append(cols, b.Build())
	}

	it.emitted = true
	return record.New(it.schema, cols), nil
}

func (it *hashAggregateIterator) consume(batch *record.RecordBatch) error {
	groupCols := make([]vector.ColumnVector, len(it.groupExprs))
	for i, ge := range it.groupExprs {
		col, err := ge.Evaluate(batch)
		if err != nil {
			return err
		}
		groupCols[i] = col
	}

	aggrInputCols := make([]vector.ColumnVector, len(it.aggrExprs))
	for i, ae := range it.aggrExprs {
		col, err := ae.Input.Evaluate(batch)
		if err != nil {
			return err
		}
		aggrInputCols[i] = col
	}

	for r := 0; r < batch.RowCount(); r++ {
		keyValues := make([]any, len(groupCols))
		for i, col := range groupCols {
			if v, ok := col.Value(r); ok {
				keyValues[i] = v
			}
		}
		gs := it.findOrCreateGroup(keyValues)
		for i, col := range aggrInputCols {
			if v, ok := col.Value(r); ok {
				gs.accs[i].Accumulate(v)
			}
		}
	}
	return nil
}

func (it *hashAggregateIterator) findOrCreateGroup(keyValues []any) *groupState {
	h := hashKey(keyValues)
	for _, gs := range it.buckets[h] {
		if keysEqual(gs.keyValues, keyValues) {
			return gs
		}
	}
	gs := &groupState{keyValues: keyValues, accs: make([]physicalexpr.Accumulator, len(it.aggrExprs))}
	for i, ae := range it.aggrExprs {
		gs.accs[i] = ae.CreateAccumulator()
	}
	it.buckets[h] = append(it.buckets[h], gs)
	it.groups = append(it.groups, gs)
	return gs
}

func (it *hashAggregateIterator) Close() error { return it.input.Close() }

// hashKey hashes a group-key tuple via util.HashCode; findOrCreateGroup
// still confirms equality on bucket hits, so a collision only costs an
// extra compare, never a wrong grouping.
func hashKey(values []any) uint64 {
	var buf strings.Builder
	for _, v := range values {
		if v == nil {
			buf.WriteByte(0)
			continue
		}
		fmt.Fprintf(&buf, "%T:%v", v, v)
		buf.WriteByte(0x1f)
	}
	return util.HashCode([]byte(buf.String()))
}

func keysEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != nil || b[i] != nil {
				return false
			}
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
