package physicalexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colquery/colquery/logicalplan"
	"github.com/colquery/colquery/physicalexpr"
	"github.com/colquery/colquery/types"
)

func newAccumulator(t *testing.T, kind logicalplan.AggrKind, inputType, outputType types.ArrowType) physicalexpr.Accumulator {
	t.Helper()
	ae := physicalexpr.NewAggregateExpr(kind, nil, inputType, outputType)
	return ae.CreateAccumulator()
}

func TestCountAccumulatorCountsNonNullCalls(t *testing.T) {
	acc := newAccumulator(t, logicalplan.AggrCount, types.Int64, types.Int32)
	acc.Accumulate(int64(1))
	acc.Accumulate(int64(2))
	acc.Accumulate(int64(3))
	assert.Equal(t, int32(3), acc.Final())
}

func TestCountDistinctAccumulator(t *testing.T) {
	acc := newAccumulator(t, logicalplan.AggrCountDistinct, types.Utf8, types.Int32)
	acc.Accumulate("CO")
	acc.Accumulate("CA")
	acc.Accumulate("CO")
	assert.Equal(t, int32(2), acc.Final())
}

func TestSumAccumulatorFloat(t *testing.T) {
	acc := newAccumulator(t, logicalplan.AggrSum, types.Float64, types.Float64)
	acc.Accumulate(10000.0)
	acc.Accumulate(11500.0)
	assert.Equal(t, 21500.0, acc.Final())
}

func TestSumAccumulatorNoInputsIsNull(t *testing.T) {
	acc := newAccumulator(t, logicalplan.AggrSum, types.Int64, types.Int64)
	assert.Nil(t, acc.Final())
}

func TestMaxAndMinAccumulators(t *testing.T) {
	max := newAccumulator(t, logicalplan.AggrMax, types.Int64, types.Int64)
	min := newAccumulator(t, logicalplan.AggrMin, types.Int64, types.Int64)
	for _, v := range []int64{12000, 10000, 11500} {
		max.Accumulate(v)
		min.Accumulate(v)
	}
	assert.Equal(t, int64(12000), max.Final())
	assert.Equal(t, int64(10000), min.Final())
}

func TestAvgAccumulatorAlwaysFloat64(t *testing.T) {
	acc := newAccumulator(t, logicalplan.AggrAvg, types.Int64, types.Float64)
	acc.Accumulate(int64(10))
	acc.Accumulate(int64(20))
	assert.Equal(t, 15.0, acc.Final())
}

func TestAvgAccumulatorNoInputsIsNull(t *testing.T) {
	acc := newAccumulator(t, logicalplan.AggrAvg, types.Int64, types.Float64)
	assert.Nil(t, acc.Final())
}
