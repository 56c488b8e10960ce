package logicalplan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colquery/colquery/datasource"
	"github.com/colquery/colquery/logicalplan"
	"github.com/colquery/colquery/types"
)

func employeeScan(t *testing.T) *logicalplan.Scan {
	t.Helper()
	schema := types.NewSchema(
		types.NewField("id", types.Int64),
		types.NewField("state", types.Utf8),
		types.NewField("salary", types.Int64),
	)
	source := datasource.NewInMemorySource(schema, nil)
	scan, err := logicalplan.NewScan("in_memory", source, nil)
	require.NoError(t, err)
	return scan
}

func TestColumnToFieldUnknown(t *testing.T) {
	scan := employeeScan(t)
	_, err := logicalplan.Col("nope").ToField(scan)
	require.Error(t, err)
}

func TestBinaryDisplay(t *testing.T) {
	expr := logicalplan.Eq(logicalplan.Col("a"), logicalplan.LitStr("x"))
	assert.Equal(t, "a = x", expr.String())
}

func TestCastDisplay(t *testing.T) {
	expr := logicalplan.Cast(logicalplan.Col("s"), types.Int64)
	assert.Equal(t, "CAST(s AS Int64Type)", expr.String())
}

func TestAggrDisplay(t *testing.T) {
	expr := logicalplan.Max(logicalplan.Col("s"))
	assert.Equal(t, "MAX(s)", expr.String())
}

func TestAliasedMathDisplay(t *testing.T) {
	expr := logicalplan.Alias(logicalplan.Mul(logicalplan.Col("s"), logicalplan.LitF64(0.1)), "bonus")
	assert.Equal(t, "s * 0.1 AS bonus", expr.String())
}

func TestAggrToFieldCountIsInt32(t *testing.T) {
	scan := employeeScan(t)
	field, err := logicalplan.Count(logicalplan.Col("id")).ToField(scan)
	require.NoError(t, err)
	assert.Equal(t, types.Int32, field.DataType)
}

func TestAggrToFieldSumPreservesChildType(t *testing.T) {
	scan := employeeScan(t)
	field, err := logicalplan.Sum(logicalplan.Col("salary")).ToField(scan)
	require.NoError(t, err)
	assert.Equal(t, types.Int64, field.DataType)
}

func TestAliasPreservesType(t *testing.T) {
	scan := employeeScan(t)
	field, err := logicalplan.Alias(logicalplan.Col("salary"), "pay").ToField(scan)
	require.NoError(t, err)
	assert.Equal(t, "pay", field.Name)
	assert.Equal(t, types.Int64, field.DataType)
}

func TestBinaryAndUnaryAlwaysBoolean(t *testing.T) {
	scan := employeeScan(t)
	field, err := logicalplan.Not(logicalplan.Eq(logicalplan.Col("id"), logicalplan.LitI64(1))).ToField(scan)
	require.NoError(t, err)
	assert.Equal(t, types.Boolean, field.DataType)
}
