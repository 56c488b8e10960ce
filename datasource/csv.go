package datasource

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/colquery/colquery/logger"
	"github.com/colquery/colquery/queryerr"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// CSVSource is the engine's file-backed DataSource, per spec.md §6: record
// separator CRLF, field separator comma, fields trimmed, malformed records
// skipped silently. When constructed without a schema, field names come
// from the header row (or field_0, field_1, ... without one) and every
// column defaults to Utf8.
type CSVSource struct {
	path       string
	schema     *types.Schema
	hasHeaders bool
	batchSize  int
}

const defaultCSVBatchSize = 1024

// NewCSVSource opens path just long enough to infer a schema when schema is
// nil; the returned source re-opens the file on every Scan.
func NewCSVSource(path string, schema *types.Schema, hasHeaders bool, batchSize int) (*CSVSource, error) {
	if batchSize <= 0 {
		batchSize = defaultCSVBatchSize
	}
	if schema == nil {
		inferred, err := inferCSVSchema(path, hasHeaders)
		if err != nil {
			return nil, err
		}
		schema = inferred
	}
	return &CSVSource{path: path, schema: schema, hasHeaders: hasHeaders, batchSize: batchSize}, nil
}

func (s *CSVSource) Schema() *types.Schema { return s.schema }

func (s *CSVSource) Scan(projection []string) (record.BatchIterator, error) {
	readSchema := s.schema
	colIndices := make([]int, s.schema.Len())
	for i := range colIndices {
		colIndices[i] = i
	}
	if len(projection) > 0 {
		var err error
		readSchema, err = s.schema.Select(projection)
		if err != nil {
			return nil, err
		}
		colIndices = make([]int, len(projection))
		for i, name := range projection {
			colIndices[i] = s.schema.IndexOf(name)
		}
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, &queryerr.SourceIoFailureError{Path: s.path, Reason: err.Error()}
	}

	cr := newCRLFReader(f)
	if s.hasHeaders {
		if _, err := cr.readRecord(); err != nil && err != io.EOF {
			f.Close()
			return nil, &queryerr.SourceIoFailureError{Path: s.path, Reason: err.Error()}
		}
	}

	logger.Log.Debugf("csv scan: %s projection=%v", s.path, projection)
	return &csvIterator{
		file:        f,
		reader:      cr,
		readSchema:  readSchema,
		colIndices:  colIndices,
		fileWidth:   s.schema.Len(),
		batchSize:   s.batchSize,
		sourcePath:  s.path,
	}, nil
}

type csvIterator struct {
	file       *os.File
	reader     *crlfReader
	readSchema *types.Schema
	colIndices []int
	fileWidth  int
	batchSize  int
	sourcePath string
	done       bool
}

func (it *csvIterator) Next() (*record.RecordBatch, error) {
	if it.done {
		return nil, io.EOF
	}

	builders := make([]vector.Builder, it.readSchema.Len())
	for i, f := range it.readSchema.Fields {
		builders[i] = vector.NewBuilder(f.DataType)
	}

	count := 0
	for count < it.batchSize {
		fields, err := it.reader.readRecord()
		if err == io.EOF {
			it.done = true
			break
		}
		if err != nil {
			return nil, &queryerr.SourceIoFailureError{Path: it.sourcePath, Reason: err.Error()}
		}
		if len(fields) != it.fileWidth {
			logger.Log.Warnf("csv: skipping malformed record in %s (want %d fields, got %d)",
				it.sourcePath, it.fileWidth, len(fields))
			continue
		}
		for i, idx := range it.colIndices {
			builders[i].Append(fields[idx])
		}
		count++
	}

	if count == 0 {
		return nil, io.EOF
	}

	cols := make([]vector.ColumnVector, len(builders))
	for i, b := range builders {
		cols[i] = b.Build()
	}
	return record.New(it.readSchema, cols), nil
}

func (it *csvIterator) Close() error {
	return it.file.Close()
}

func inferCSVSchema(path string, hasHeaders bool) (*types.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &queryerr.SourceIoFailureError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	cr := newCRLFReader(f)
	header, err := cr.readRecord()
	if err != nil && err != io.EOF {
		return nil, &queryerr.SourceIoFailureError{Path: path, Reason: err.Error()}
	}

	fields := make([]types.Field, len(header))
	for i, name := range header {
		if hasHeaders {
			fields[i] = types.NewField(name, types.Utf8)
		} else {
			fields[i] = types.NewField(fmt.Sprintf("field_%d", i), types.Utf8)
		}
	}
	return types.NewSchema(fields...), nil
}

// crlfReader splits a stream into CRLF-terminated, comma-separated,
// trimmed-field records. A line missing its trailing CRLF (end of file) is
// still returned once before the next call reports io.EOF.
type crlfReader struct {
	br *bufio.Reader
}

func newCRLFReader(r io.Reader) *crlfReader {
	return &crlfReader{br: bufio.NewReader(r)}
}

func (c *crlfReader) readRecord() ([]string, error) {
	line, err := c.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if err == io.EOF && line == "" {
		return nil, io.EOF
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields, nil
}
