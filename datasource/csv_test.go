package datasource_test

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colquery/colquery/datasource"
	"github.com/colquery/colquery/record"
)

func TestCSVSourceInfersUtf8SchemaFromHeader(t *testing.T) {
	source, err := datasource.NewCSVSource("testdata/employee.csv", nil, true, 0)
	require.NoError(t, err)

	schema := source.Schema()
	assert.Equal(t, []string{"id", "first_name", "last_name", "state", "job_title", "salary"}, schema.Names())
}

func TestCSVSourceScanReadsAllRows(t *testing.T) {
	source, err := datasource.NewCSVSource("testdata/employee.csv", nil, true, 0)
	require.NoError(t, err)

	it, err := source.Scan(nil)
	require.NoError(t, err)
	defer it.Close()

	batch, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 4, batch.RowCount())

	v, ok := batch.ColumnByName("first_name").Value(0)
	require.True(t, ok)
	assert.Equal(t, "Bill", v)

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCSVSourceScanProjectsByName(t *testing.T) {
	source, err := datasource.NewCSVSource("testdata/employee.csv", nil, true, 0)
	require.NoError(t, err)

	it, err := source.Scan([]string{"salary", "state"})
	require.NoError(t, err)
	defer it.Close()

	batch, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"salary", "state"}, batch.Schema.Names())

	v, ok := batch.Column(0).Value(0)
	require.True(t, ok)
	assert.Equal(t, "12000", v)
}

func TestCSVSourceRespectsBatchSize(t *testing.T) {
	source, err := datasource.NewCSVSource("testdata/employee.csv", nil, true, 2)
	require.NoError(t, err)

	it, err := source.Scan(nil)
	require.NoError(t, err)
	defer it.Close()

	var batches []*record.RecordBatch
	for {
		b, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		batches = append(batches, b)
	}
	require.Len(t, batches, 2)
	assert.Equal(t, 2, batches[0].RowCount())
	assert.Equal(t, 2, batches[1].RowCount())
}

func TestCSVSourceSkipsMalformedRecords(t *testing.T) {
	path := t.TempDir() + "/malformed.csv"
	require.NoError(t, os.WriteFile(path, []byte("a,b\r\n1,2\r\nonly-one-field\r\n3,4\r\n"), 0o644))

	source, err := datasource.NewCSVSource(path, nil, true, 0)
	require.NoError(t, err)

	it, err := source.Scan(nil)
	require.NoError(t, err)
	defer it.Close()

	batch, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, batch.RowCount())
}

func TestCSVSourceEmptyFileYieldsNoBatches(t *testing.T) {
	path := t.TempDir() + "/empty.csv"
	require.NoError(t, os.WriteFile(path, []byte("a,b\r\n"), 0o644))

	source, err := datasource.NewCSVSource(path, nil, true, 0)
	require.NoError(t, err)

	it, err := source.Scan(nil)
	require.NoError(t, err)
	defer it.Close()

	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}
