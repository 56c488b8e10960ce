package physicalexpr

import (
	"fmt"
	"math"

	"github.com/colquery/colquery/queryerr"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// MathOp identifies one of the arithmetic operators lowered from
// logicalplan.MathOp.
type MathOp int

const (
	OpAdd MathOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
)

var mathOpSymbols = map[MathOp]string{OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%"}

func (op MathOp) String() string { return mathOpSymbols[op] }

// MathExpr evaluates an arithmetic operator over two columns of the same
// numeric ArrowType, producing a column of that same type — the left
// operand's type, per spec.md's ToField rule for Math expressions.
type MathExpr struct {
	Op          MathOp
	Left, Right PhysicalExpr
}

func NewMath(op MathOp, left, right PhysicalExpr) *MathExpr {
	return &MathExpr{Op: op, Left: left, Right: right}
}

func (e *MathExpr) String() string { return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right) }

func (e *MathExpr) Evaluate(batch *record.RecordBatch) (vector.ColumnVector, error) {
	l, err := e.Left.Evaluate(batch)
	if err != nil {
		return nil, err
	}
	r, err := e.Right.Evaluate(batch)
	if err != nil {
		return nil, err
	}
	if l.Len() != r.Len() {
		return nil, &queryerr.LengthMismatchError{Left: l.Len(), Right: r.Len()}
	}
	if l.Type() != r.Type() {
		return nil, &queryerr.TypeMismatchError{Left: l.Type(), Right: r.Type()}
	}
	return evalMath(e.Op, l.Type(), l, r)
}

func evalMath(op MathOp, dt types.ArrowType, l, r vector.ColumnVector) (vector.ColumnVector, error) {
	switch dt {
	case types.Int8:
		return evalMathInt[int8](op, dt, l, r)
	case types.Int16:
		return evalMathInt[int16](op, dt, l, r)
	case types.Int32:
		return evalMathInt[int32](op, dt, l, r)
	case types.Int64:
		return evalMathInt[int64](op, dt, l, r)
	case types.UInt8:
		return evalMathUint[uint8](op, dt, l, r)
	case types.UInt16:
		return evalMathUint[uint16](op, dt, l, r)
	case types.UInt32:
		return evalMathUint[uint32](op, dt, l, r)
	case types.UInt64:
		return evalMathUint[uint64](op, dt, l, r)
	case types.Float32:
		return evalMathFloat[float32](op, dt, l, r)
	case types.Float64:
		return evalMathFloat[float64](op, dt, l, r)
	default:
		return nil, &queryerr.UnsupportedTypeError{Type: dt}
	}
}

type signedInt interface{ ~int8 | ~int16 | ~int32 | ~int64 }
type unsignedInt interface{ ~uint8 | ~uint16 | ~uint32 | ~uint64 }
type anyFloat interface{ ~float32 | ~float64 }

func evalMathInt[T signedInt](op MathOp, dt types.ArrowType, l, r vector.ColumnVector) (vector.ColumnVector, error) {
	builder := vector.NewBuilder(dt)
	for i := 0; i < l.Len(); i++ {
		lv, lok := l.Value(i)
		rv, rok := r.Value(i)
		if !lok || !rok {
			builder.Append(nil)
			continue
		}
		a, b := lv.(T), rv.(T)
		switch op {
		case OpAdd:
			builder.Append(a + b)
		case OpSub:
			builder.Append(a - b)
		case OpMul:
			builder.Append(a * b)
		case OpDiv:
			if b == 0 {
				return nil, &queryerr.ArithmeticFailureError{Reason: "integer divide by zero"}
			}
			builder.Append(a / b)
		case OpMod:
			if b == 0 {
				return nil, &queryerr.ArithmeticFailureError{Reason: "integer modulo by zero"}
			}
			builder.Append(a % b)
		}
	}
	return builder.Build(), nil
}

func evalMathUint[T unsignedInt](op MathOp, dt types.ArrowType, l, r vector.ColumnVector) (vector.ColumnVector, error) {
	builder := vector.NewBuilder(dt)
	for i := 0; i < l.Len(); i++ {
		lv, lok := l.Value(i)
		rv, rok := r.Value(i)
		if !lok || !rok {
			builder.Append(nil)
			continue
		}
		a, b := lv.(T), rv.(T)
		switch op {
		case OpAdd:
			builder.Append(a + b)
		case OpSub:
			builder.Append(a - b)
		case OpMul:
			builder.Append(a * b)
		case OpDiv:
			if b == 0 {
				return nil, &queryerr.ArithmeticFailureError{Reason: "integer divide by zero"}
			}
			builder.Append(a / b)
		case OpMod:
			if b == 0 {
				return nil, &queryerr.ArithmeticFailureError{Reason: "integer modulo by zero"}
			}
			builder.Append(a % b)
		}
	}
	return builder.Build(), nil
}

func evalMathFloat[T anyFloat](op MathOp, dt types.ArrowType, l, r vector.ColumnVector) (vector.ColumnVector, error) {
	builder := vector.NewBuilder(dt)
	for i := 0; i < l.Len(); i++ {
		lv, lok := l.Value(i)
		rv, rok := r.Value(i)
		if !lok || !rok {
			builder.Append(nil)
			continue
		}
		a, b := float64(lv.(T)), float64(rv.(T))
		var res float64
		switch op {
		case OpAdd:
			res = a + b
		case OpSub:
			res = a - b
		case OpMul:
			res = a * b
		case OpDiv:
			res = a / b
		case OpMod:
			res = math.Mod(a, b)
		}
		builder.Append(T(res))
	}
	return builder.Build(), nil
}
