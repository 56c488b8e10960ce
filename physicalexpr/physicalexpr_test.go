package physicalexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colquery/colquery/physicalexpr"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

func col(dt types.ArrowType, values ...any) vector.ColumnVector {
	b := vector.NewBuilder(dt)
	for _, v := range values {
		b.Append(v)
	}
	return b.Build()
}

func batchOf(schema *types.Schema, cols ...vector.ColumnVector) *record.RecordBatch {
	return record.New(schema, cols)
}

func TestBinaryEqualityOverStrings(t *testing.T) {
	schema := types.NewSchema(types.NewField("state", types.Utf8))
	batch := batchOf(schema, col(types.Utf8, "CO", "CA", "CO"))

	expr := physicalexpr.NewBinary(physicalexpr.OpEq,
		physicalexpr.NewColumn(0, "state"),
		physicalexpr.NewLiteral(types.Utf8, "CO"))

	out, err := expr.Evaluate(batch)
	require.NoError(t, err)
	v0, _ := out.Value(0)
	v1, _ := out.Value(1)
	v2, _ := out.Value(2)
	assert.Equal(t, true, v0)
	assert.Equal(t, false, v1)
	assert.Equal(t, true, v2)
}

func TestBinaryTypeMismatch(t *testing.T) {
	schema := types.NewSchema(types.NewField("a", types.Int32), types.NewField("b", types.Utf8))
	batch := batchOf(schema, col(types.Int32, int32(1)), col(types.Utf8, "x"))

	expr := physicalexpr.NewBinary(physicalexpr.OpEq, physicalexpr.NewColumn(0, "a"), physicalexpr.NewColumn(1, "b"))
	_, err := expr.Evaluate(batch)
	require.Error(t, err)
}

func TestMathIntegerDivideByZero(t *testing.T) {
	schema := types.NewSchema(types.NewField("a", types.Int32), types.NewField("b", types.Int32))
	batch := batchOf(schema, col(types.Int32, int32(10)), col(types.Int32, int32(0)))

	expr := physicalexpr.NewMath(physicalexpr.OpDiv, physicalexpr.NewColumn(0, "a"), physicalexpr.NewColumn(1, "b"))
	_, err := expr.Evaluate(batch)
	require.Error(t, err)
}

func TestMathFloatDivideByZeroProducesInf(t *testing.T) {
	schema := types.NewSchema(types.NewField("a", types.Float64), types.NewField("b", types.Float64))
	batch := batchOf(schema, col(types.Float64, 10.0), col(types.Float64, 0.0))

	expr := physicalexpr.NewMath(physicalexpr.OpDiv, physicalexpr.NewColumn(0, "a"), physicalexpr.NewColumn(1, "b"))
	out, err := expr.Evaluate(batch)
	require.NoError(t, err)
	v, ok := out.Value(0)
	require.True(t, ok)
	assert.True(t, v.(float64) > 1e300)
}

func TestCastStringToIntNullsOnFailure(t *testing.T) {
	schema := types.NewSchema(types.NewField("s", types.Utf8))
	batch := batchOf(schema, col(types.Utf8, "42", "not-a-number"))

	expr := physicalexpr.NewCast(physicalexpr.NewColumn(0, "s"), types.Int32)
	out, err := expr.Evaluate(batch)
	require.NoError(t, err)

	v, ok := out.Value(0)
	require.True(t, ok)
	assert.Equal(t, int32(42), v)

	_, ok = out.Value(1)
	assert.False(t, ok)
}

func TestCastNegativeSignedToUnsignedNulls(t *testing.T) {
	schema := types.NewSchema(types.NewField("n", types.Int32))
	batch := batchOf(schema, col(types.Int32, int32(-5)))

	expr := physicalexpr.NewCast(physicalexpr.NewColumn(0, "n"), types.UInt32)
	out, err := expr.Evaluate(batch)
	require.NoError(t, err)
	_, ok := out.Value(0)
	assert.False(t, ok)
}

func TestCastOverflowNulls(t *testing.T) {
	schema := types.NewSchema(types.NewField("n", types.Int32))
	batch := batchOf(schema, col(types.Int32, int32(1000)))

	expr := physicalexpr.NewCast(physicalexpr.NewColumn(0, "n"), types.Int8)
	out, err := expr.Evaluate(batch)
	require.NoError(t, err)
	_, ok := out.Value(0)
	assert.False(t, ok)
}

func TestCastDoubleWideningEqualsDirect(t *testing.T) {
	schema := types.NewSchema(types.NewField("n", types.Int8))
	batch := batchOf(schema, col(types.Int8, int8(5)))

	viaInt32 := physicalexpr.NewCast(physicalexpr.NewCast(physicalexpr.NewColumn(0, "n"), types.Int32), types.Int64)
	direct := physicalexpr.NewCast(physicalexpr.NewColumn(0, "n"), types.Int64)

	viaOut, err := viaInt32.Evaluate(batch)
	require.NoError(t, err)
	directOut, err := direct.Evaluate(batch)
	require.NoError(t, err)

	v1, _ := viaOut.Value(0)
	v2, _ := directOut.Value(0)
	assert.Equal(t, v2, v1)
}
