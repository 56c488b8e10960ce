package physicalexpr

import (
	"strings"

	"github.com/colquery/colquery/types"
)

// compare orders two non-null values of the same ArrowType, returning
// <0, 0, >0 the way bytes.Compare / strings.Compare do.
func compare(dt types.ArrowType, a, b any) int {
	switch dt {
	case types.Boolean:
		ab, bb := a.(bool), b.(bool)
		if ab == bb {
			return 0
		}
		if !ab && bb {
			return -1
		}
		return 1
	case types.Int8:
		return intCompare(int64(a.(int8)), int64(b.(int8)))
	case types.Int16:
		return intCompare(int64(a.(int16)), int64(b.(int16)))
	case types.Int32:
		return intCompare(int64(a.(int32)), int64(b.(int32)))
	case types.Int64:
		return intCompare(a.(int64), b.(int64))
	case types.UInt8:
		return uintCompare(uint64(a.(uint8)), uint64(b.(uint8)))
	case types.UInt16:
		return uintCompare(uint64(a.(uint16)), uint64(b.(uint16)))
	case types.UInt32:
		return uintCompare(uint64(a.(uint32)), uint64(b.(uint32)))
	case types.UInt64:
		return uintCompare(a.(uint64), b.(uint64))
	case types.Float32:
		return floatCompare(float64(a.(float32)), float64(b.(float32)))
	case types.Float64:
		return floatCompare(a.(float64), b.(float64))
	case types.Utf8:
		return strings.Compare(a.(string), b.(string))
	}
	return 0
}

func intCompare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func uintCompare(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func floatCompare(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
