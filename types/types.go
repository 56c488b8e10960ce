// Package types implements the engine's closed column-type system: ArrowType,
// Field, and Schema, grounded on the teacher's metadata.DatabaseSchema/Table
// (server/innodb/metadata/schema.go) but narrowed from a full table catalog
// down to the flat, ordered field list a record batch needs.
package types

import (
	"fmt"
	"strings"

	"github.com/colquery/colquery/queryerr"
)

// ArrowType is the closed set of column types the engine understands. There
// is no total ordering across types; equality is only ever compared within
// the same type.
type ArrowType int

const (
	Boolean ArrowType = iota
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	Utf8
)

// arrowTypeNames holds the canonical textual form used in plan printouts
// (e.g. "CAST(s AS Int64Type)").
var arrowTypeNames = map[ArrowType]string{
	Boolean: "BooleanType",
	Int8:    "Int8Type",
	Int16:   "Int16Type",
	Int32:   "Int32Type",
	Int64:   "Int64Type",
	UInt8:   "UInt8Type",
	UInt16:  "UInt16Type",
	UInt32:  "UInt32Type",
	UInt64:  "UInt64Type",
	Float32: "Float32Type",
	Float64: "Float64Type",
	Utf8:    "Utf8Type",
}

func (t ArrowType) String() string {
	if name, ok := arrowTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UnknownType(%d)", int(t))
}

// IsInteger reports whether t is one of the signed or unsigned integer
// variants.
func (t ArrowType) IsInteger() bool {
	switch t {
	case Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// IsUnsigned reports whether t is one of the unsigned integer variants.
func (t ArrowType) IsUnsigned() bool {
	switch t {
	case UInt8, UInt16, UInt32, UInt64:
		return true
	}
	return false
}

// IsFloat reports whether t is Float32 or Float64.
func (t ArrowType) IsFloat() bool {
	return t == Float32 || t == Float64
}

// Field is a named, typed column. Names are case-sensitive and compared by
// byte equality throughout the engine.
type Field struct {
	Name     string
	DataType ArrowType
}

func NewField(name string, dataType ArrowType) Field {
	return Field{Name: name, DataType: dataType}
}

func (f Field) String() string {
	return fmt.Sprintf("%s: %s", f.Name, f.DataType)
}

// Schema is an ordered sequence of fields. Field positions are stable;
// callers may address fields by index or by name. Duplicate field names are
// permitted; name-based lookup returns the first occurrence.
type Schema struct {
	Fields []Field
}

func NewSchema(fields ...Field) *Schema {
	return &Schema{Fields: fields}
}

// Field returns the i-th field. Callers must bounds-check via Len first;
// ColumnIndex expression resolution is the one caller that needs the
// distinct IndexOutOfRange error and does the check itself.
func (s *Schema) Field(i int) Field {
	return s.Fields[i]
}

func (s *Schema) Len() int {
	return len(s.Fields)
}

// IndexOf returns the index of the first field named name, or -1.
func (s *Schema) IndexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the schema's field names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Project returns a new schema built from the fields at the given indices,
// in the order given. Indices must be in range; an out-of-range index
// panics.
func (s *Schema) Project(indices []int) *Schema {
	fields := make([]Field, len(indices))
	for i, idx := range indices {
		fields[i] = s.Fields[idx]
	}
	return &Schema{Fields: fields}
}

// Select returns a new schema containing the named fields, in the order
// given. It fails with UnknownFieldError the first time a name doesn't
// occur.
func (s *Schema) Select(names []string) (*Schema, error) {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		idx := s.IndexOf(name)
		if idx < 0 {
			return nil, &queryerr.UnknownFieldError{Name: name}
		}
		fields = append(fields, s.Fields[idx])
	}
	return &Schema{Fields: fields}, nil
}

func (s *Schema) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}
