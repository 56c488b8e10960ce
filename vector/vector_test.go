package vector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

func TestBuilderAppendNativeAndParsed(t *testing.T) {
	b := vector.NewBuilder(types.Int32)
	b.Append(int32(7))
	b.Append("42")
	b.Append("not-a-number")
	b.Append(nil)
	col := b.Build()

	assert.Equal(t, 4, col.Len())
	v, ok := col.Value(0)
	assert.True(t, ok)
	assert.Equal(t, int32(7), v)

	v, ok = col.Value(1)
	assert.True(t, ok)
	assert.Equal(t, int32(42), v)

	_, ok = col.Value(2)
	assert.False(t, ok, "unparseable string appends null")

	_, ok = col.Value(3)
	assert.False(t, ok, "explicit nil appends null")
}

func TestBuilderAppendAfterBuildPanics(t *testing.T) {
	b := vector.NewBuilder(types.Utf8)
	b.Build()
	assert.Panics(t, func() { b.Append("x") })
}

func TestBuilderOutOfRangeValue(t *testing.T) {
	b := vector.NewBuilder(types.Boolean)
	b.Append(true)
	col := b.Build()
	_, ok := col.Value(5)
	assert.False(t, ok)
}

func TestLiteralValueVector(t *testing.T) {
	lit := vector.NewLiteralValueVector(types.Utf8, "CO", 3)
	assert.Equal(t, 3, lit.Len())
	v, ok := lit.Value(2)
	assert.True(t, ok)
	assert.Equal(t, "CO", v)
	_, ok = lit.Value(3)
	assert.False(t, ok)
}

func TestLiteralValueVectorNull(t *testing.T) {
	lit := vector.NewLiteralValueVector(types.Int32, nil, 2)
	_, ok := lit.Value(0)
	assert.False(t, ok)
}
