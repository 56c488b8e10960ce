// Package optimizer implements the projection push-down rule, grounded on
// the teacher's columnPruning pass (server/innodb/plan/optimizer.go) but
// rewritten as the single top-down walk with an accumulating reference set
// that spec.md §4.4 prescribes, rather than the teacher's two-pass
// collect-then-prune shape.
package optimizer

import (
	"github.com/colquery/colquery/logicalplan"
	"github.com/colquery/colquery/queryerr"
)

// Optimize rewrites plan so every Scan below a Projection or Aggregate reads
// only the columns referenced by its ancestors' expressions, in source order,
// per spec.md §4.4; a Scan reached only through Selection/Limit nodes keeps
// every column (see pushDown). It returns a
// semantically equivalent plan: Optimize(plan).Schema() always equals
// plan.Schema().
func Optimize(plan logicalplan.LogicalPlan) (logicalplan.LogicalPlan, error) {
	refs := make(map[string]struct{})
	return pushDown(plan, refs, false)
}

// pushDown walks plan top-down, accumulating the column names any ancestor
// expression references into refs. narrowed tracks whether a Projection or
// Aggregate has appeared on the path from the root down to the current
// node: those are the only two plan kinds that define a new, possibly
// narrower schema. Selection and Limit are passthrough — their output
// schema equals their input's — so a Scan reached without ever passing
// through a narrowing ancestor must keep every source column, or the
// optimized plan's schema would silently lose columns the caller never
// asked to drop.
func pushDown(plan logicalplan.LogicalPlan, refs map[string]struct{}, narrowed bool) (logicalplan.LogicalPlan, error) {
	switch p := plan.(type) {
	case *logicalplan.Projection:
		addExprRefs(refs, p.Input, p.Exprs)
		child, err := pushDown(p.Input, refs, true)
		if err != nil {
			return nil, err
		}
		return logicalplan.NewProjection(child, p.Exprs)

	case *logicalplan.Selection:
		addExprRefs(refs, p.Input, []logicalplan.Expr{p.Predicate})
		child, err := pushDown(p.Input, refs, narrowed)
		if err != nil {
			return nil, err
		}
		return logicalplan.NewSelection(child, p.Predicate), nil

	case *logicalplan.Aggregate:
		addExprRefs(refs, p.Input, p.GroupExprs)
		addExprRefs(refs, p.Input, p.AggrExprs)
		child, err := pushDown(p.Input, refs, true)
		if err != nil {
			return nil, err
		}
		return logicalplan.NewAggregate(child, p.GroupExprs, p.AggrExprs)

	case *logicalplan.Limit:
		child, err := pushDown(p.Input, refs, narrowed)
		if err != nil {
			return nil, err
		}
		return logicalplan.NewLimit(child, p.N), nil

	case *logicalplan.Scan:
		if !narrowed {
			return logicalplan.NewScan(p.Path, p.Source, nil)
		}
		sourceNames := p.Source.Schema().Names()
		sorted := make([]string, 0, len(sourceNames))
		for _, name := range sourceNames {
			if _, ok := refs[name]; ok {
				sorted = append(sorted, name)
			}
		}
		return logicalplan.NewScan(p.Path, p.Source, sorted)

	default:
		return nil, &queryerr.UnsupportedPlanError{Kind: planKind(plan)}
	}
}

func planKind(plan logicalplan.LogicalPlan) string {
	switch plan.(type) {
	case *logicalplan.Projection:
		return "Projection"
	case *logicalplan.Selection:
		return "Selection"
	case *logicalplan.Aggregate:
		return "Aggregate"
	case *logicalplan.Limit:
		return "Limit"
	case *logicalplan.Scan:
		return "Scan"
	default:
		return "unknown"
	}
}

// addExprRefs walks each expr and records every column name it references
// into refs, resolving ColumnIndex against input's schema.
func addExprRefs(refs map[string]struct{}, input logicalplan.LogicalPlan, exprs []logicalplan.Expr) {
	for _, e := range exprs {
		collectColumns(refs, input, e)
	}
}

func collectColumns(refs map[string]struct{}, input logicalplan.LogicalPlan, e logicalplan.Expr) {
	switch ex := e.(type) {
	case *logicalplan.ColumnExpr:
		refs[ex.Name] = struct{}{}
	case *logicalplan.ColumnIndexExpr:
		schema := input.Schema()
		if ex.Index >= 0 && ex.Index < schema.Len() {
			refs[schema.Field(ex.Index).Name] = struct{}{}
		}
	case *logicalplan.LiteralExpr:
		// contributes nothing
	case *logicalplan.CastExpr:
		collectColumns(refs, input, ex.Expr)
	case *logicalplan.BinaryExpr:
		collectColumns(refs, input, ex.Left)
		collectColumns(refs, input, ex.Right)
	case *logicalplan.UnaryExpr:
		collectColumns(refs, input, ex.Expr)
	case *logicalplan.MathExpr:
		collectColumns(refs, input, ex.Left)
		collectColumns(refs, input, ex.Right)
	case *logicalplan.AggrExpr:
		collectColumns(refs, input, ex.Expr)
	case *logicalplan.AliasExpr:
		collectColumns(refs, input, ex.Expr)
	}
}
