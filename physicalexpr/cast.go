package physicalexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// CastExpr converts its input column to TargetType. Per spec.md §4.5:
// string sources are parsed, numeric narrowing/widening checks range and
// sign, and a value that fails to parse, falls outside the target's range,
// or is negative for an unsigned target nulls the row rather than erroring.
// Float-to-integer casts truncate toward zero; integer-to-float casts always
// succeed and may round.
type CastExpr struct {
	Expr       PhysicalExpr
	TargetType types.ArrowType
}

func NewCast(expr PhysicalExpr, target types.ArrowType) *CastExpr {
	return &CastExpr{Expr: expr, TargetType: target}
}

func (e *CastExpr) String() string { return fmt.Sprintf("CAST(%s AS %s)", e.Expr, e.TargetType) }

func (e *CastExpr) Evaluate(batch *record.RecordBatch) (vector.ColumnVector, error) {
	src, err := e.Expr.Evaluate(batch)
	if err != nil {
		return nil, err
	}
	builder := vector.NewBuilder(e.TargetType)
	for i := 0; i < src.Len(); i++ {
		v, ok := src.Value(i)
		if !ok {
			builder.Append(nil)
			continue
		}
		converted, ok := convertValue(v, src.Type(), e.TargetType)
		if !ok {
			builder.Append(nil)
			continue
		}
		builder.Append(converted)
	}
	return builder.Build(), nil
}

func convertValue(v any, src, dst types.ArrowType) (any, bool) {
	if src == dst {
		return v, true
	}
	if src == types.Utf8 {
		return parseStringTo(v.(string), dst)
	}
	if dst == types.Utf8 {
		return fmt.Sprintf("%v", v), true
	}
	if src.IsFloat() {
		return floatToTarget(v, dst)
	}
	if dst.IsFloat() {
		return numericToFloat(v, dst)
	}
	return intToTarget(v, dst)
}

func parseStringTo(s string, dst types.ArrowType) (any, bool) {
	s = strings.TrimSpace(s)
	switch dst {
	case types.Boolean:
		b, err := strconv.ParseBool(s)
		return b, err == nil
	case types.Int8:
		i, err := strconv.ParseInt(s, 10, 8)
		return int8(i), err == nil
	case types.Int16:
		i, err := strconv.ParseInt(s, 10, 16)
		return int16(i), err == nil
	case types.Int32:
		i, err := strconv.ParseInt(s, 10, 32)
		return int32(i), err == nil
	case types.Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		return i, err == nil
	case types.UInt8:
		u, err := strconv.ParseUint(s, 10, 8)
		return uint8(u), err == nil
	case types.UInt16:
		u, err := strconv.ParseUint(s, 10, 16)
		return uint16(u), err == nil
	case types.UInt32:
		u, err := strconv.ParseUint(s, 10, 32)
		return uint32(u), err == nil
	case types.UInt64:
		u, err := strconv.ParseUint(s, 10, 64)
		return u, err == nil
	case types.Float32:
		f, err := strconv.ParseFloat(s, 32)
		return float32(f), err == nil
	case types.Float64:
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return nil, false
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

func asUint64(v any) (uint64, bool) {
	switch x := v.(type) {
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case int8:
		if x < 0 {
			return 0, false
		}
		return uint64(x), true
	case int16:
		if x < 0 {
			return 0, false
		}
		return uint64(x), true
	case int32:
		if x < 0 {
			return 0, false
		}
		return uint64(x), true
	case int64:
		if x < 0 {
			return 0, false
		}
		return uint64(x), true
	}
	return 0, false
}

func fitInt(i int64, dst types.ArrowType) (any, bool) {
	switch dst {
	case types.Int8:
		if i < math.MinInt8 || i > math.MaxInt8 {
			return nil, false
		}
		return int8(i), true
	case types.Int16:
		if i < math.MinInt16 || i > math.MaxInt16 {
			return nil, false
		}
		return int16(i), true
	case types.Int32:
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, false
		}
		return int32(i), true
	case types.Int64:
		return i, true
	}
	return nil, false
}

func fitUint(u uint64, dst types.ArrowType) (any, bool) {
	switch dst {
	case types.UInt8:
		if u > math.MaxUint8 {
			return nil, false
		}
		return uint8(u), true
	case types.UInt16:
		if u > math.MaxUint16 {
			return nil, false
		}
		return uint16(u), true
	case types.UInt32:
		if u > math.MaxUint32 {
			return nil, false
		}
		return uint32(u), true
	case types.UInt64:
		return u, true
	}
	return nil, false
}

func intToTarget(v any, dst types.ArrowType) (any, bool) {
	if dst.IsUnsigned() {
		u, ok := asUint64(v)
		if !ok {
			return nil, false
		}
		return fitUint(u, dst)
	}
	i, ok := asInt64(v)
	if !ok {
		return nil, false
	}
	return fitInt(i, dst)
}

func numericToFloat(v any, dst types.ArrowType) (any, bool) {
	var f float64
	if u, ok := asUint64(v); ok {
		f = float64(u)
	} else if i, ok := asInt64(v); ok {
		f = float64(i)
	} else {
		return nil, false
	}
	if dst == types.Float32 {
		return float32(f), true
	}
	return f, true
}

func floatToTarget(v any, dst types.ArrowType) (any, bool) {
	var f float64
	switch x := v.(type) {
	case float32:
		f = float64(x)
	case float64:
		f = x
	default:
		return nil, false
	}
	if dst.IsFloat() {
		if dst == types.Float32 {
			return float32(f), true
		}
		return f, true
	}

	t := math.Trunc(f)
	if dst.IsUnsigned() {
		u, ok := floatFitsUint(t, dst)
		if !ok {
			return nil, false
		}
		return fitUint(u, dst)
	}
	i, ok := floatFitsInt(t, dst)
	if !ok {
		return nil, false
	}
	return fitInt(i, dst)
}

func floatFitsUint(t float64, dst types.ArrowType) (uint64, bool) {
	if t < 0 {
		return 0, false
	}
	switch dst {
	case types.UInt8:
		if t > 255 {
			return 0, false
		}
	case types.UInt16:
		if t > 65535 {
			return 0, false
		}
	case types.UInt32:
		if t > 4294967295 {
			return 0, false
		}
	case types.UInt64:
		if t >= 18446744073709551616.0 {
			return 0, false
		}
	}
	return uint64(t), true
}

func floatFitsInt(t float64, dst types.ArrowType) (int64, bool) {
	switch dst {
	case types.Int8:
		if t < -128 || t > 127 {
			return 0, false
		}
	case types.Int16:
		if t < -32768 || t > 32767 {
			return 0, false
		}
	case types.Int32:
		if t < -2147483648 || t > 2147483647 {
			return 0, false
		}
	case types.Int64:
		if t < -9223372036854775808.0 || t >= 9223372036854775808.0 {
			return 0, false
		}
	}
	return int64(t), true
}
