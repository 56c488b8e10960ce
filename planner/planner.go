// Package planner lowers the logical plan and expression algebra into the
// physical plan and expression algebra, per spec.md §4.7: a deterministic,
// one-pass, top-down walk grounded on the teacher's ConvertToPhysicalPlan
// chain (server/innodb/plan/physical_plan.go) but restructured around the
// two closed sums (LogicalPlan/Expr -> PhysicalPlan/PhysicalExpr) rather
// than the teacher's single mutable plan-tree rewrite.
package planner

import (
	"github.com/colquery/colquery/logicalplan"
	"github.com/colquery/colquery/physicalexpr"
	"github.com/colquery/colquery/physicalplan"
	"github.com/colquery/colquery/queryerr"
	"github.com/colquery/colquery/types"
)

// Plan lowers a logical plan into its physical counterpart.
func Plan(plan logicalplan.LogicalPlan) (physicalplan.PhysicalPlan, error) {
	switch p := plan.(type) {
	case *logicalplan.Scan:
		return physicalplan.NewScanExec(p.Source, p.Projection)

	case *logicalplan.Selection:
		input, err := Plan(p.Input)
		if err != nil {
			return nil, err
		}
		predicate, err := PlanExpr(p.Predicate, p.Input)
		if err != nil {
			return nil, err
		}
		return physicalplan.NewSelectionExec(input, predicate), nil

	case *logicalplan.Projection:
		input, err := Plan(p.Input)
		if err != nil {
			return nil, err
		}
		exprs := make([]physicalexpr.PhysicalExpr, len(p.Exprs))
		for i, e := range p.Exprs {
			pe, err := PlanExpr(e, p.Input)
			if err != nil {
				return nil, err
			}
			exprs[i] = pe
		}
		return physicalplan.NewProjectionExec(input, exprs, p.Schema()), nil

	case *logicalplan.Aggregate:
		input, err := Plan(p.Input)
		if err != nil {
			return nil, err
		}
		groupExprs := make([]physicalexpr.PhysicalExpr, len(p.GroupExprs))
		for i, e := range p.GroupExprs {
			pe, err := PlanExpr(e, p.Input)
			if err != nil {
				return nil, err
			}
			groupExprs[i] = pe
		}
		aggrExprs := make([]*physicalexpr.AggregateExpr, len(p.AggrExprs))
		for i, e := range p.AggrExprs {
			ae, err := planAggregateExpr(e.(*logicalplan.AggrExpr), p.Input)
			if err != nil {
				return nil, err
			}
			aggrExprs[i] = ae
		}
		return physicalplan.NewHashAggregateExec(input, groupExprs, aggrExprs, p.Schema()), nil

	case *logicalplan.Limit:
		input, err := Plan(p.Input)
		if err != nil {
			return nil, err
		}
		return physicalplan.NewLimitExec(input, p.N), nil

	default:
		return nil, &queryerr.UnsupportedPlanError{Kind: "unknown logical plan"}
	}
}

// PlanExpr lowers a logical expression into its physical counterpart against
// input's schema. Column resolves its name to an index; Alias lowers to its
// child since aliasing is pure naming with no runtime effect.
func PlanExpr(expr logicalplan.Expr, input logicalplan.LogicalPlan) (physicalexpr.PhysicalExpr, error) {
	switch e := expr.(type) {
	case *logicalplan.ColumnExpr:
		idx := input.Schema().IndexOf(e.Name)
		if idx < 0 {
			return nil, &queryerr.UnknownColumnError{Name: e.Name}
		}
		return physicalexpr.NewColumn(idx, e.Name), nil

	case *logicalplan.ColumnIndexExpr:
		schema := input.Schema()
		if e.Index < 0 || e.Index >= schema.Len() {
			return nil, &queryerr.IndexOutOfRangeError{Index: e.Index}
		}
		return physicalexpr.NewColumn(e.Index, schema.Field(e.Index).Name), nil

	case *logicalplan.LiteralExpr:
		return physicalexpr.NewLiteral(e.DataType, e.Value), nil

	case *logicalplan.CastExpr:
		child, err := PlanExpr(e.Expr, input)
		if err != nil {
			return nil, err
		}
		return physicalexpr.NewCast(child, e.Target), nil

	case *logicalplan.BinaryExpr:
		left, err := PlanExpr(e.Left, input)
		if err != nil {
			return nil, err
		}
		right, err := PlanExpr(e.Right, input)
		if err != nil {
			return nil, err
		}
		return physicalexpr.NewBinary(lowerBinaryOp(e.Op), left, right), nil

	case *logicalplan.UnaryExpr:
		child, err := PlanExpr(e.Expr, input)
		if err != nil {
			return nil, err
		}
		return physicalexpr.NewNot(child), nil

	case *logicalplan.MathExpr:
		left, err := PlanExpr(e.Left, input)
		if err != nil {
			return nil, err
		}
		right, err := PlanExpr(e.Right, input)
		if err != nil {
			return nil, err
		}
		return physicalexpr.NewMath(lowerMathOp(e.Op), left, right), nil

	case *logicalplan.AggrExpr:
		// Aggregates are only valid as a top-level Aggregate plan's
		// AggrExprs, lowered directly by planAggregateExpr in Plan's
		// *logicalplan.Aggregate case; AggregateExpr is not a row-wise
		// PhysicalExpr and has no Evaluate method.
		return nil, &queryerr.UnsupportedExpressionError{Kind: "aggregate expression outside Aggregate plan"}

	case *logicalplan.AliasExpr:
		return PlanExpr(e.Expr, input)

	default:
		return nil, &queryerr.UnsupportedExpressionError{Kind: "unknown logical expression"}
	}
}

// planAggregateExpr lowers an Aggr(kind, child) into an AggregateExpr
// wrapping lower_expr(child), per spec.md §4.7. AVG's declared output type
// is hard-set to Float64: §4.5 defines its finalization as sum/count cast
// to Float64 regardless of the summed column's own type, which is more
// specific than the generic to_field table's "Aggr returns input type" rule.
func planAggregateExpr(e *logicalplan.AggrExpr, input logicalplan.LogicalPlan) (*physicalexpr.AggregateExpr, error) {
	childExpr, err := PlanExpr(e.Expr, input)
	if err != nil {
		return nil, err
	}
	childField, err := e.Expr.ToField(input)
	if err != nil {
		return nil, err
	}

	outputType := childField.DataType
	switch e.Kind {
	case logicalplan.AggrCount, logicalplan.AggrCountDistinct:
		outputType = types.Int32
	case logicalplan.AggrAvg:
		outputType = types.Float64
	}

	return physicalexpr.NewAggregateExpr(e.Kind, childExpr, childField.DataType, outputType), nil
}

func lowerBinaryOp(op logicalplan.BinaryOp) physicalexpr.BinaryOp {
	switch op {
	case logicalplan.OpEq:
		return physicalexpr.OpEq
	case logicalplan.OpNeq:
		return physicalexpr.OpNeq
	case logicalplan.OpGt:
		return physicalexpr.OpGt
	case logicalplan.OpGte:
		return physicalexpr.OpGte
	case logicalplan.OpLt:
		return physicalexpr.OpLt
	case logicalplan.OpLte:
		return physicalexpr.OpLte
	case logicalplan.OpAnd:
		return physicalexpr.OpAnd
	case logicalplan.OpOr:
		return physicalexpr.OpOr
	default:
		return physicalexpr.OpEq
	}
}

func lowerMathOp(op logicalplan.MathOp) physicalexpr.MathOp {
	switch op {
	case logicalplan.OpAdd:
		return physicalexpr.OpAdd
	case logicalplan.OpSub:
		return physicalexpr.OpSub
	case logicalplan.OpMul:
		return physicalexpr.OpMul
	case logicalplan.OpDiv:
		return physicalexpr.OpDiv
	case logicalplan.OpMod:
		return physicalexpr.OpMod
	default:
		return physicalexpr.OpAdd
	}
}
