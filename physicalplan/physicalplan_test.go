package physicalplan_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colquery/colquery/datasource"
	"github.com/colquery/colquery/logicalplan"
	"github.com/colquery/colquery/physicalexpr"
	"github.com/colquery/colquery/physicalplan"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

func stateSalaryBatches() (*types.Schema, []*record.RecordBatch) {
	schema := types.NewSchema(
		types.NewField("state", types.Utf8),
		types.NewField("salary", types.Int64),
	)
	states := vector.NewBuilder(types.Utf8)
	salaries := vector.NewBuilder(types.Int64)
	for _, row := range []struct {
		state  string
		salary int64
	}{
		{"CA", 12000}, {"CO", 10000}, {"CO", 11500}, {"CA", 11500},
	} {
		states.Append(row.state)
		salaries.Append(row.salary)
	}
	batch := record.New(schema, []vector.ColumnVector{states.Build(), salaries.Build()})
	return schema, []*record.RecordBatch{batch}
}

func drainAll(t *testing.T, it record.BatchIterator) []*record.RecordBatch {
	t.Helper()
	var out []*record.RecordBatch
	for {
		b, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func TestScanExecDelegatesToSource(t *testing.T) {
	schema, batches := stateSalaryBatches()
	source := datasource.NewInMemorySource(schema, batches)
	scan, err := physicalplan.NewScanExec(source, nil)
	require.NoError(t, err)

	it, err := scan.Execute()
	require.NoError(t, err)
	out := drainAll(t, it)
	require.Len(t, out, 1)
	assert.Equal(t, 4, out[0].RowCount())
}

func TestSelectionExecFiltersRowsPreservingOrder(t *testing.T) {
	schema, batches := stateSalaryBatches()
	source := datasource.NewInMemorySource(schema, batches)
	scan, err := physicalplan.NewScanExec(source, nil)
	require.NoError(t, err)

	predicate := physicalexpr.NewBinary(physicalexpr.OpEq,
		physicalexpr.NewColumn(0, "state"), physicalexpr.NewLiteral(types.Utf8, "CO"))
	sel := physicalplan.NewSelectionExec(scan, predicate)

	it, err := sel.Execute()
	require.NoError(t, err)
	out := drainAll(t, it)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].RowCount())
	v, _ := out[0].Column(1).Value(0)
	assert.Equal(t, int64(10000), v)
}

func TestSelectionExecEmitsEmptyBatchWhenNothingMatches(t *testing.T) {
	schema, batches := stateSalaryBatches()
	source := datasource.NewInMemorySource(schema, batches)
	scan, err := physicalplan.NewScanExec(source, nil)
	require.NoError(t, err)

	predicate := physicalexpr.NewBinary(physicalexpr.OpEq,
		physicalexpr.NewColumn(0, "state"), physicalexpr.NewLiteral(types.Utf8, "NV"))
	sel := physicalplan.NewSelectionExec(scan, predicate)

	it, err := sel.Execute()
	require.NoError(t, err)
	out := drainAll(t, it)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].RowCount())
}

func TestLimitExecTruncatesToFirstNRows(t *testing.T) {
	schema, batches := stateSalaryBatches()
	source := datasource.NewInMemorySource(schema, batches)
	scan, err := physicalplan.NewScanExec(source, nil)
	require.NoError(t, err)

	limit := physicalplan.NewLimitExec(scan, 3)
	it, err := limit.Execute()
	require.NoError(t, err)
	out := drainAll(t, it)
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].RowCount())
}

func TestHashAggregateExecGroupsByState(t *testing.T) {
	schema, batches := stateSalaryBatches()
	source := datasource.NewInMemorySource(schema, batches)
	scan, err := physicalplan.NewScanExec(source, nil)
	require.NoError(t, err)

	groupExprs := []physicalexpr.PhysicalExpr{physicalexpr.NewColumn(0, "state")}
	sumExpr := physicalexpr.NewAggregateExpr(logicalplan.AggrSum, physicalexpr.NewColumn(1, "salary"), types.Int64, types.Int64)
	outSchema := types.NewSchema(types.NewField("state", types.Utf8), types.NewField("SUM(salary)", types.Int64))

	agg := physicalplan.NewHashAggregateExec(scan, groupExprs, []*physicalexpr.AggregateExpr{sumExpr}, outSchema)
	it, err := agg.Execute()
	require.NoError(t, err)

	batch, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, batch.RowCount())

	totals := map[string]int64{}
	for i := 0; i < batch.RowCount(); i++ {
		state, _ := batch.Column(0).Value(i)
		sum, _ := batch.Column(1).Value(i)
		totals[state.(string)] = sum.(int64)
	}
	assert.Equal(t, int64(23500), totals["CA"])
	assert.Equal(t, int64(21500), totals["CO"])

	_, err = it.Next()
	assert.Equal(t, io.EOF, err, "HashAggregateExec emits exactly one batch")
}
