// Package vector implements read-only typed columns and the builders that
// produce them, grounded on the teacher's basic.Value family
// (server/innodb/basic/value.go) but reshaped from a single boxed-value type
// into one generic column per ArrowType, per spec.md's design note to favor
// "a single inner loop per (op, type) pair over type-erased virtual dispatch
// per row".
package vector

import (
	"strconv"
	"strings"

	"github.com/colquery/colquery/types"
)

// ColumnVector is a read-only view of one typed column. Value returns the
// element at i boxed as an `any` whose dynamic type matches Type(); the
// second return is false for out-of-range indices and for nulls ("absent",
// per spec.md §3).
type ColumnVector interface {
	Type() types.ArrowType
	Len() int
	Value(i int) (any, bool)
}

// typedVector is the concrete representation used for every ArrowType: a
// dense slice of T plus a validity bitmap. Dispatch to the right T happens
// once, in NewBuilder/value conversion, not per row.
type typedVector[T any] struct {
	dt     types.ArrowType
	values []T
	valid  []bool
}

func (v *typedVector[T]) Type() types.ArrowType { return v.dt }
func (v *typedVector[T]) Len() int              { return len(v.values) }

func (v *typedVector[T]) Value(i int) (any, bool) {
	if i < 0 || i >= len(v.values) || !v.valid[i] {
		return nil, false
	}
	return v.values[i], true
}

// LiteralValueVector is a size-N constant column: one value repeated, per
// spec.md §3. Value reports absent for i >= Len().
type LiteralValueVector struct {
	dt    types.ArrowType
	value any
	size  int
	null  bool
}

// NewLiteralValueVector builds a constant column of size repeating value. A
// nil value produces a column that is null at every position.
func NewLiteralValueVector(dt types.ArrowType, value any, size int) *LiteralValueVector {
	return &LiteralValueVector{dt: dt, value: value, size: size, null: value == nil}
}

func (v *LiteralValueVector) Type() types.ArrowType { return v.dt }
func (v *LiteralValueVector) Len() int              { return v.size }

func (v *LiteralValueVector) Value(i int) (any, bool) {
	if i < 0 || i >= v.size || v.null {
		return nil, false
	}
	return v.value, true
}

// Builder accumulates values for one column and finalizes them into an
// immutable ColumnVector. A Builder is single-use: Build consumes it, and
// further Append calls after Build panic, mirroring spec.md §4.1's
// "the builder is consumed by build()".
type Builder interface {
	// Append accepts a native value of the builder's target type, a string
	// (parsed; a parse failure appends null), or anything else/nil (appends
	// null), per the table in spec.md §4.1. Integer builders also accept any
	// Go integer of the same signedness, converted to the target width
	// without a range check.
	Append(v any)
	Build() ColumnVector
}

type typedBuilder[T any] struct {
	dt     types.ArrowType
	values []T
	valid  []bool
	built  bool
	native func(any) (T, bool)
	parse  func(string) (T, bool)
}

func (b *typedBuilder[T]) Append(v any) {
	if b.built {
		panic("vector: Append called after Build")
	}
	if v == nil {
		b.appendNull()
		return
	}
	if native, ok := b.native(v); ok {
		b.values = append(b.values, native)
		b.valid = append(b.valid, true)
		return
	}
	if s, ok := v.(string); ok {
		if parsed, ok := b.parse(s); ok {
			b.values = append(b.values, parsed)
			b.valid = append(b.valid, true)
			return
		}
		b.appendNull()
		return
	}
	b.appendNull()
}

func (b *typedBuilder[T]) appendNull() {
	var zero T
	b.values = append(b.values, zero)
	b.valid = append(b.valid, false)
}

func (b *typedBuilder[T]) Build() ColumnVector {
	b.built = true
	return &typedVector[T]{dt: b.dt, values: b.values, valid: b.valid}
}

// NewBuilder returns a Builder whose Append/Build pair targets dt. The
// switch dispatches once per builder, not per element, matching the rest of
// the engine's per-(op,type) dispatch style.
func NewBuilder(dt types.ArrowType) Builder {
	switch dt {
	case types.Boolean:
		return &typedBuilder[bool]{dt: dt, native: nativeBool, parse: parseBool}
	case types.Int8:
		return &typedBuilder[int8]{dt: dt, native: nativeInt[int8], parse: parseInt[int8]}
	case types.Int16:
		return &typedBuilder[int16]{dt: dt, native: nativeInt[int16], parse: parseInt[int16]}
	case types.Int32:
		return &typedBuilder[int32]{dt: dt, native: nativeInt[int32], parse: parseInt[int32]}
	case types.Int64:
		return &typedBuilder[int64]{dt: dt, native: nativeInt[int64], parse: parseInt[int64]}
	case types.UInt8:
		return &typedBuilder[uint8]{dt: dt, native: nativeUint[uint8], parse: parseUint[uint8]}
	case types.UInt16:
		return &typedBuilder[uint16]{dt: dt, native: nativeUint[uint16], parse: parseUint[uint16]}
	case types.UInt32:
		return &typedBuilder[uint32]{dt: dt, native: nativeUint[uint32], parse: parseUint[uint32]}
	case types.UInt64:
		return &typedBuilder[uint64]{dt: dt, native: nativeUint[uint64], parse: parseUint[uint64]}
	case types.Float32:
		return &typedBuilder[float32]{dt: dt, native: nativeFloat32, parse: parseFloat32}
	case types.Float64:
		return &typedBuilder[float64]{dt: dt, native: nativeFloat64, parse: parseFloat64}
	case types.Utf8:
		return &typedBuilder[string]{dt: dt, native: nativeString, parse: parseString}
	default:
		panic("vector: unsupported ArrowType in NewBuilder")
	}
}

func nativeBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func parseBool(s string) (bool, bool) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return b, err == nil
}

func nativeString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func parseString(s string) (string, bool) { return s, true }

func nativeFloat32(v any) (float32, bool) {
	f, ok := v.(float32)
	return f, ok
}

func parseFloat32(s string) (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	return float32(f), err == nil
}

func nativeFloat64(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func parseFloat64(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
