// Package logicalplan implements the logical expression algebra and the
// logical plan algebra together, since Expr.ToField takes the enclosing
// LogicalPlan and LogicalPlan nodes hold Exprs -- the two are mutually
// recursive, same as the teacher's plan.Expression/plan.LogicalPlan pair in
// server/innodb/plan/expression.go and logical_plan.go, which this package
// generalizes from MySQL-row expressions into Arrow-typed column
// expressions per spec.md §3-4.2.
package logicalplan

import (
	"fmt"
	"strconv"

	"github.com/colquery/colquery/queryerr"
	"github.com/colquery/colquery/types"
)

// Expr is the closed sum of logical expression variants. Each variant knows
// how to display itself canonically and how to resolve its output Field
// against an input plan's schema.
type Expr interface {
	ToField(input LogicalPlan) (types.Field, error)
	String() string
}

// ColumnExpr resolves a column by name against the input plan's schema.
type ColumnExpr struct{ Name string }

func Col(name string) *ColumnExpr { return &ColumnExpr{Name: name} }

func (e *ColumnExpr) String() string { return e.Name }

func (e *ColumnExpr) ToField(input LogicalPlan) (types.Field, error) {
	schema := input.Schema()
	idx := schema.IndexOf(e.Name)
	if idx < 0 {
		return types.Field{}, &queryerr.UnknownColumnError{Name: e.Name}
	}
	return schema.Field(idx), nil
}

// ColumnIndexExpr resolves a column by position against the input plan's
// schema.
type ColumnIndexExpr struct{ Index int }

func ColIdx(i int) *ColumnIndexExpr { return &ColumnIndexExpr{Index: i} }

func (e *ColumnIndexExpr) String() string { return fmt.Sprintf("#%d", e.Index) }

func (e *ColumnIndexExpr) ToField(input LogicalPlan) (types.Field, error) {
	schema := input.Schema()
	if e.Index < 0 || e.Index >= schema.Len() {
		return types.Field{}, &queryerr.IndexOutOfRangeError{Index: e.Index}
	}
	return schema.Field(e.Index), nil
}

// LiteralExpr is a constant of one of the four literal kinds spec.md §3
// allows: string, i64, f32, f64. Its field name is the value's string form.
type LiteralExpr struct {
	DataType types.ArrowType
	Value    any
}

func LitStr(v string) *LiteralExpr  { return &LiteralExpr{DataType: types.Utf8, Value: v} }
func LitI64(v int64) *LiteralExpr   { return &LiteralExpr{DataType: types.Int64, Value: v} }
func LitF32(v float32) *LiteralExpr { return &LiteralExpr{DataType: types.Float32, Value: v} }
func LitF64(v float64) *LiteralExpr { return &LiteralExpr{DataType: types.Float64, Value: v} }

func (e *LiteralExpr) String() string {
	switch v := e.Value.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (e *LiteralExpr) ToField(LogicalPlan) (types.Field, error) {
	return types.NewField(e.String(), e.DataType), nil
}

// CastExpr casts its child expression to a target ArrowType. Its field name
// is its child's field name; its type is the target.
type CastExpr struct {
	Expr   Expr
	Target types.ArrowType
}

func Cast(expr Expr, target types.ArrowType) *CastExpr {
	return &CastExpr{Expr: expr, Target: target}
}

func (e *CastExpr) String() string {
	return fmt.Sprintf("CAST(%s AS %s)", e.Expr.String(), e.Target.String())
}

func (e *CastExpr) ToField(input LogicalPlan) (types.Field, error) {
	childField, err := e.Expr.ToField(input)
	if err != nil {
		return types.Field{}, err
	}
	return types.NewField(childField.Name, e.Target), nil
}

// BinaryOp is the set of comparison and boolean operators, per spec.md §3.
type BinaryOp string

const (
	OpAnd BinaryOp = "AND"
	OpOr  BinaryOp = "OR"
	OpEq  BinaryOp = "="
	OpNeq BinaryOp = "!="
	OpGt  BinaryOp = ">"
	OpGte BinaryOp = ">="
	OpLt  BinaryOp = "<"
	OpLte BinaryOp = "<="
)

// BinaryExpr is a boolean-valued comparison or logical connective. It
// always returns Boolean.
type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Expr
}

func Binary(op BinaryOp, l, r Expr) *BinaryExpr { return &BinaryExpr{Op: op, Left: l, Right: r} }
func Eq(l, r Expr) *BinaryExpr                  { return Binary(OpEq, l, r) }
func Neq(l, r Expr) *BinaryExpr                 { return Binary(OpNeq, l, r) }
func Gt(l, r Expr) *BinaryExpr                  { return Binary(OpGt, l, r) }
func Gte(l, r Expr) *BinaryExpr                 { return Binary(OpGte, l, r) }
func Lt(l, r Expr) *BinaryExpr                  { return Binary(OpLt, l, r) }
func Lte(l, r Expr) *BinaryExpr                 { return Binary(OpLte, l, r) }
func And(l, r Expr) *BinaryExpr                 { return Binary(OpAnd, l, r) }
func Or(l, r Expr) *BinaryExpr                  { return Binary(OpOr, l, r) }

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left.String(), e.Op, e.Right.String())
}

func (e *BinaryExpr) ToField(LogicalPlan) (types.Field, error) {
	return types.NewField(e.String(), types.Boolean), nil
}

// UnaryOp is the set of unary boolean operators, per spec.md §3 (just NOT).
type UnaryOp string

const OpNot UnaryOp = "NOT"

// UnaryExpr negates its boolean child.
type UnaryExpr struct {
	Op   UnaryOp
	Expr Expr
}

func Not(expr Expr) *UnaryExpr { return &UnaryExpr{Op: OpNot, Expr: expr} }

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("%s %s", e.Op, e.Expr.String())
}

func (e *UnaryExpr) ToField(LogicalPlan) (types.Field, error) {
	return types.NewField(e.String(), types.Boolean), nil
}

// MathOp is the set of arithmetic operators, per spec.md §3.
type MathOp string

const (
	OpAdd MathOp = "+"
	OpSub MathOp = "-"
	OpMul MathOp = "*"
	OpDiv MathOp = "/"
	OpMod MathOp = "%"
)

// MathExpr is an arithmetic operation. It returns the left operand's type.
type MathExpr struct {
	Op          MathOp
	Left, Right Expr
}

func Math(op MathOp, l, r Expr) *MathExpr { return &MathExpr{Op: op, Left: l, Right: r} }
func Add(l, r Expr) *MathExpr             { return Math(OpAdd, l, r) }
func Sub(l, r Expr) *MathExpr             { return Math(OpSub, l, r) }
func Mul(l, r Expr) *MathExpr             { return Math(OpMul, l, r) }
func Div(l, r Expr) *MathExpr             { return Math(OpDiv, l, r) }
func Mod(l, r Expr) *MathExpr             { return Math(OpMod, l, r) }

func (e *MathExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Left.String(), e.Op, e.Right.String())
}

func (e *MathExpr) ToField(input LogicalPlan) (types.Field, error) {
	leftField, err := e.Left.ToField(input)
	if err != nil {
		return types.Field{}, err
	}
	return types.NewField(e.String(), leftField.DataType), nil
}

// AggrKind is the set of aggregate functions, per spec.md §3.
type AggrKind string

const (
	AggrMax           AggrKind = "MAX"
	AggrMin           AggrKind = "MIN"
	AggrSum           AggrKind = "SUM"
	AggrAvg           AggrKind = "AVG"
	AggrCount         AggrKind = "COUNT"
	AggrCountDistinct AggrKind = "COUNT_DISTINCT"
)

// AggrExpr is an aggregate function over its child expression. It returns
// its child's type, except COUNT/COUNT_DISTINCT which always return Int32
// and AVG which always returns Float64.
type AggrExpr struct {
	Kind AggrKind
	Expr Expr
}

func Aggr(kind AggrKind, expr Expr) *AggrExpr { return &AggrExpr{Kind: kind, Expr: expr} }
func Max(expr Expr) *AggrExpr                 { return Aggr(AggrMax, expr) }
func Min(expr Expr) *AggrExpr                 { return Aggr(AggrMin, expr) }
func Sum(expr Expr) *AggrExpr                 { return Aggr(AggrSum, expr) }
func Avg(expr Expr) *AggrExpr                 { return Aggr(AggrAvg, expr) }
func Count(expr Expr) *AggrExpr               { return Aggr(AggrCount, expr) }
func CountDistinct(expr Expr) *AggrExpr       { return Aggr(AggrCountDistinct, expr) }

func (e *AggrExpr) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Expr.String())
}

func (e *AggrExpr) ToField(input LogicalPlan) (types.Field, error) {
	childField, err := e.Expr.ToField(input)
	if err != nil {
		return types.Field{}, err
	}
	switch e.Kind {
	case AggrCount, AggrCountDistinct:
		return types.NewField(e.String(), types.Int32), nil
	case AggrAvg:
		return types.NewField(e.String(), types.Float64), nil
	}
	return types.NewField(e.String(), childField.DataType), nil
}

// AliasExpr renames its child's output field, preserving its type.
type AliasExpr struct {
	Expr Expr
	Name string
}

func Alias(expr Expr, name string) *AliasExpr { return &AliasExpr{Expr: expr, Name: name} }

func (e *AliasExpr) String() string {
	return fmt.Sprintf("%s AS %s", e.Expr.String(), e.Name)
}

func (e *AliasExpr) ToField(input LogicalPlan) (types.Field, error) {
	childField, err := e.Expr.ToField(input)
	if err != nil {
		return types.Field{}, err
	}
	return types.NewField(e.Name, childField.DataType), nil
}
