package execution_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colquery/colquery/dataframe"
	"github.com/colquery/colquery/execution"
	"github.com/colquery/colquery/logicalplan"
	"github.com/colquery/colquery/types"
)

const employeeCSV = "../datasource/testdata/employee.csv"

func csvFrame(t *testing.T, ctx *execution.ExecutionContext) *dataframe.DataFrame {
	t.Helper()
	df, err := ctx.CSV(employeeCSV, true)
	require.NoError(t, err)
	return df
}

func drainToCSV(t *testing.T, ctx *execution.ExecutionContext, df *dataframe.DataFrame, optimize bool) string {
	t.Helper()
	it, err := ctx.Execute(df, optimize)
	require.NoError(t, err)
	defer it.Close()

	var buf bytes.Buffer
	for {
		batch, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, batch.ToCSV(&buf))
	}
	return buf.String()
}

func TestScenario1_ProjectFirstName(t *testing.T) {
	ctx := execution.NewExecutionContext()
	df := csvFrame(t, ctx)
	projected, err := df.Project(logicalplan.Col("first_name"))
	require.NoError(t, err)

	got := drainToCSV(t, ctx, projected, false)
	assert.Equal(t, "Bill\r\nGregg\r\nJohn\r\nVon\r\n", got)
}

func TestScenario2_FilterByState(t *testing.T) {
	ctx := execution.NewExecutionContext()
	df := csvFrame(t, ctx)
	filtered := df.Filter(logicalplan.Eq(logicalplan.Col("state"), logicalplan.LitStr("CO")))
	projected, err := filtered.Project(
		logicalplan.Alias(logicalplan.Col("last_name"), "name"),
		logicalplan.Col("first_name"),
	)
	require.NoError(t, err)

	assert.Equal(t, "name", projected.Schema().Field(0).Name)
	got := drainToCSV(t, ctx, projected, false)
	assert.Equal(t, "Langford,Gregg\r\nTravis,John\r\n", got)
}

func TestScenario3_BooleanOr(t *testing.T) {
	ctx := execution.NewExecutionContext()
	df := csvFrame(t, ctx)
	predicate := logicalplan.Or(
		logicalplan.Eq(logicalplan.Col("state"), logicalplan.LitStr("CO")),
		logicalplan.Eq(logicalplan.Col("state"), logicalplan.LitStr("CA")),
	)
	filtered := df.Filter(predicate)
	projected, err := filtered.Project(
		logicalplan.Alias(logicalplan.Col("last_name"), "name"),
		logicalplan.Col("first_name"),
	)
	require.NoError(t, err)

	got := drainToCSV(t, ctx, projected, false)
	assert.Equal(t, "Hopkins,Bill\r\nLangford,Gregg\r\nTravis,John\r\nMill,Von\r\n", got)
}

func TestScenario4_CastAndEquality(t *testing.T) {
	ctx := execution.NewExecutionContext()
	df := csvFrame(t, ctx)
	filtered := df.Filter(logicalplan.Eq(
		logicalplan.Cast(logicalplan.Col("salary"), types.Int64),
		logicalplan.LitI64(10000),
	))

	got := drainToCSV(t, ctx, filtered, false)
	assert.Equal(t, "2,Gregg,Langford,CO,Driver,10000\r\n", got)
}

func TestScenario5_AggregateWithFilter(t *testing.T) {
	ctx := execution.NewExecutionContext()
	df := csvFrame(t, ctx)
	aggregated, err := df.Aggregate(
		[]logicalplan.Expr{logicalplan.Col("state")},
		[]logicalplan.Expr{
			logicalplan.Sum(logicalplan.Cast(logicalplan.Col("salary"), types.Float64)),
			logicalplan.Max(logicalplan.Cast(logicalplan.Col("id"), types.UInt16)),
			logicalplan.Min(logicalplan.Cast(logicalplan.Col("salary"), types.Int64)),
		},
	)
	require.NoError(t, err)
	filtered := aggregated.Filter(logicalplan.Eq(logicalplan.Col("state"), logicalplan.LitStr("CO")))

	got := drainToCSV(t, ctx, filtered, false)
	assert.Equal(t, "CO,21500,3,10000\r\n", got)
}

func TestScenario6_OptimizedPipeline(t *testing.T) {
	ctx := execution.NewExecutionContext()
	df := csvFrame(t, ctx)
	filtered := df.Filter(logicalplan.Eq(logicalplan.Col("state"), logicalplan.LitStr("CO")))
	aggregated, err := filtered.Aggregate(
		[]logicalplan.Expr{logicalplan.Col("state")},
		[]logicalplan.Expr{
			logicalplan.Sum(logicalplan.Cast(logicalplan.Col("salary"), types.Float64)),
			logicalplan.Min(logicalplan.Cast(logicalplan.Col("salary"), types.Int64)),
		},
	)
	require.NoError(t, err)

	got := drainToCSV(t, ctx, aggregated, true)
	assert.Equal(t, "CO,21500,10000\r\n", got)
}

func TestRegisterAndLookup(t *testing.T) {
	ctx := execution.NewExecutionContext()
	require.NoError(t, ctx.RegisterCSV("employees", employeeCSV, true))

	df, ok := ctx.Lookup("employees")
	require.True(t, ok)
	assert.Equal(t, 6, df.Schema().Len())

	_, ok = ctx.Lookup("missing")
	assert.False(t, ok)
}

func TestCSVBatchSizeDefault(t *testing.T) {
	ctx := execution.NewExecutionContext()
	assert.Equal(t, 1024, ctx.CSVBatchSize())
	ctx.SetCSVBatchSize(2)
	assert.Equal(t, 2, ctx.CSVBatchSize())
	ctx.SetCSVBatchSize(0)
	assert.Equal(t, 2, ctx.CSVBatchSize(), "non-positive overrides are ignored")
}
