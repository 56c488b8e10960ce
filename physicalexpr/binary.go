package physicalexpr

import (
	"fmt"

	"github.com/colquery/colquery/queryerr"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
	"github.com/colquery/colquery/vector"
)

// BinaryOp identifies one of the comparison/logical operators lowered from
// logicalplan.BinaryOp.
type BinaryOp int

const (
	OpEq BinaryOp = iota
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
	OpAnd
	OpOr
)

var binaryOpSymbols = map[BinaryOp]string{
	OpEq: "=", OpNeq: "!=", OpGt: ">", OpGte: ">=", OpLt: "<", OpLte: "<=",
	OpAnd: "AND", OpOr: "OR",
}

func (op BinaryOp) String() string { return binaryOpSymbols[op] }

// BinaryExpr evaluates a comparison or boolean operator, always producing a
// Boolean column. Comparisons require Left and Right to share an ArrowType;
// AND/OR require both operands to already be Boolean.
type BinaryExpr struct {
	Op          BinaryOp
	Left, Right PhysicalExpr
}

func NewBinary(op BinaryOp, left, right PhysicalExpr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left, e.Op, e.Right)
}

func (e *BinaryExpr) Evaluate(batch *record.RecordBatch) (vector.ColumnVector, error) {
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

	logical := e.Op == OpAnd || e.Op == OpOr
	if logical {
		if l.Type() != types.Boolean || r.Type() != types.Boolean {
			return nil, &queryerr.TypeMismatchError{Left: l.Type(), Right: r.Type()}
		}
	} else if l.Type() != r.Type() {
		return nil, &queryerr.TypeMismatchError{Left: l.Type(), Right: r.Type()}
	}

	builder := vector.NewBuilder(types.Boolean)
	for i := 0; i < l.Len(); i++ {
		lv, lok := l.Value(i)
		rv, rok := r.Value(i)
		if !lok || !rok {
			builder.Append(nil)
			continue
		}
		switch e.Op {
		case OpAnd:
			builder.Append(lv.(bool) && rv.(bool))
		case OpOr:
			builder.Append(lv.(bool) || rv.(bool))
		default:
			cmp := compare(l.Type(), lv, rv)
			switch e.Op {
			case OpEq:
				builder.Append(cmp == 0)
			case OpNeq:
				builder.Append(cmp != 0)
			case OpGt:
				builder.Append(cmp > 0)
			case OpGte:
				builder.Append(cmp >= 0)
			case OpLt:
				builder.Append(cmp < 0)
			case OpLte:
				builder.Append(cmp <= 0)
			}
		}
	}
	return builder.Build(), nil
}

// UnaryExpr evaluates NOT, requiring a Boolean operand.
type UnaryExpr struct {
	Expr PhysicalExpr
}

func NewNot(expr PhysicalExpr) *UnaryExpr { return &UnaryExpr{Expr: expr} }

func (e *UnaryExpr) String() string { return fmt.Sprintf("NOT %s", e.Expr) }

func (e *UnaryExpr) Evaluate(batch *record.RecordBatch) (vector.ColumnVector, error) {
	v, err := e.Expr.Evaluate(batch)
	if err != nil {
		return nil, err
	}
	if v.Type() != types.Boolean {
		return nil, &queryerr.UnsupportedTypeError{Type: v.Type()}
	}
	builder := vector.NewBuilder(types.Boolean)
	for i := 0; i < v.Len(); i++ {
		val, ok := v.Value(i)
		if !ok {
			builder.Append(nil)
			continue
		}
		builder.Append(!val.(bool))
	}
	return builder.Build(), nil
}
