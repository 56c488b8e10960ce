package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colquery/colquery/queryerr"
	"github.com/colquery/colquery/types"
)

func testSchema() *types.Schema {
	return types.NewSchema(
		types.NewField("id", types.Int64),
		types.NewField("name", types.Utf8),
		types.NewField("salary", types.Float64),
	)
}

func TestSchemaIndexOf(t *testing.T) {
	s := testSchema()
	assert.Equal(t, 0, s.IndexOf("id"))
	assert.Equal(t, 2, s.IndexOf("salary"))
	assert.Equal(t, -1, s.IndexOf("missing"))
}

func TestSchemaSelect(t *testing.T) {
	s := testSchema()
	selected, err := s.Select([]string{"salary", "id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"salary", "id"}, selected.Names())

	_, err = s.Select([]string{"nope"})
	require.Error(t, err)
	var unknown *queryerr.UnknownFieldError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Name)
}

func TestSchemaProject(t *testing.T) {
	s := testSchema()
	projected := s.Project([]int{2, 0})
	assert.Equal(t, []string{"salary", "id"}, projected.Names())
}

func TestArrowTypeClassification(t *testing.T) {
	assert.True(t, types.Int32.IsInteger())
	assert.False(t, types.Int32.IsUnsigned())
	assert.True(t, types.UInt32.IsUnsigned())
	assert.True(t, types.Float64.IsFloat())
	assert.False(t, types.Utf8.IsFloat())
	assert.Equal(t, "Int64Type", types.Int64.String())
}
