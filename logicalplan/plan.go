package logicalplan

import (
	"fmt"
	"strings"

	"github.com/colquery/colquery/datasource"
	"github.com/colquery/colquery/types"
)

// LogicalPlan is the closed sum of logical plan node variants. Each node
// reports its output schema, its children, and a one-line display used by
// format() to build the canonical tab-indented tree spec.md §6 prescribes.
type LogicalPlan interface {
	Schema() *types.Schema
	Children() []LogicalPlan
	String() string
}

// Scan is a leaf plan reading from a DataSource, optionally projected to a
// subset of its columns. Its schema is pre-computed at construction so it
// never recomputes on every access, per spec.md §4.2's constructor-time
// policy.
type Scan struct {
	Path       string
	Source     datasource.DataSource
	Projection []string
	schema     *types.Schema
}

// NewScan builds a Scan, pre-computing its schema: source.schema.select
// (projection) when projection is non-empty, otherwise source.schema.
func NewScan(path string, source datasource.DataSource, projection []string) (*Scan, error) {
	var schema *types.Schema
	if len(projection) == 0 {
		schema = source.Schema()
	} else {
		var err error
		schema, err = source.Schema().Select(projection)
		if err != nil {
			return nil, err
		}
	}
	return &Scan{Path: path, Source: source, Projection: projection, schema: schema}, nil
}

func (s *Scan) Schema() *types.Schema    { return s.schema }
func (s *Scan) Children() []LogicalPlan  { return nil }

func (s *Scan) String() string {
	if len(s.Projection) == 0 {
		return fmt.Sprintf("Scan: %s; projection=None", s.Path)
	}
	return fmt.Sprintf("Scan: %s; projection=[%s]", s.Path, strings.Join(s.Projection, ", "))
}

// Selection is a row filter; its schema is identical to its input's.
type Selection struct {
	Input     LogicalPlan
	Predicate Expr
}

func NewSelection(input LogicalPlan, predicate Expr) *Selection {
	return &Selection{Input: input, Predicate: predicate}
}

func (s *Selection) Schema() *types.Schema   { return s.Input.Schema() }
func (s *Selection) Children() []LogicalPlan { return []LogicalPlan{s.Input} }
func (s *Selection) String() string          { return fmt.Sprintf("Selection: %s", s.Predicate.String()) }

// Projection derives a new set of columns from its input. Its schema is
// computed from its expressions' ToField against the input.
type Projection struct {
	Input LogicalPlan
	Exprs []Expr
}

func NewProjection(input LogicalPlan, exprs []Expr) (*Projection, error) {
	if _, err := projectionSchema(input, exprs); err != nil {
		return nil, err
	}
	return &Projection{Input: input, Exprs: exprs}, nil
}

func projectionSchema(input LogicalPlan, exprs []Expr) (*types.Schema, error) {
	fields := make([]types.Field, len(exprs))
	for i, e := range exprs {
		f, err := e.ToField(input)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return types.NewSchema(fields...), nil
}

func (p *Projection) Schema() *types.Schema {
	schema, err := projectionSchema(p.Input, p.Exprs)
	if err != nil {
		// Construction already validated this; a later failure would mean
		// the input plan changed shape underneath an immutable node, which
		// never happens since plans are immutable once built.
		panic(err)
	}
	return schema
}

func (p *Projection) Children() []LogicalPlan { return []LogicalPlan{p.Input} }

func (p *Projection) String() string {
	parts := make([]string, len(p.Exprs))
	for i, e := range p.Exprs {
		parts[i] = e.String()
	}
	return fmt.Sprintf("Projection: %s", strings.Join(parts, ", "))
}

// Aggregate groups rows by GroupExprs and computes AggrExprs over each
// group. At construction, AggrExprs is filtered to entries rooted at an
// AggrExpr, silently dropping the rest, per spec.md §3's Aggregate
// constructor-time policy.
type Aggregate struct {
	Input      LogicalPlan
	GroupExprs []Expr
	AggrExprs  []Expr
}

func NewAggregate(input LogicalPlan, groupExprs, aggrExprs []Expr) (*Aggregate, error) {
	filtered := make([]Expr, 0, len(aggrExprs))
	for _, e := range aggrExprs {
		if _, ok := e.(*AggrExpr); ok {
			filtered = append(filtered, e)
		}
	}
	all := append(append([]Expr{}, groupExprs...), filtered...)
	if _, err := projectionSchema(input, all); err != nil {
		return nil, err
	}
	return &Aggregate{Input: input, GroupExprs: groupExprs, AggrExprs: filtered}, nil
}

func (a *Aggregate) Schema() *types.Schema {
	all := append(append([]Expr{}, a.GroupExprs...), a.AggrExprs...)
	schema, err := projectionSchema(a.Input, all)
	if err != nil {
		panic(err)
	}
	return schema
}

func (a *Aggregate) Children() []LogicalPlan { return []LogicalPlan{a.Input} }

func (a *Aggregate) String() string {
	group := make([]string, len(a.GroupExprs))
	for i, e := range a.GroupExprs {
		group[i] = e.String()
	}
	aggr := make([]string, len(a.AggrExprs))
	for i, e := range a.AggrExprs {
		aggr[i] = e.String()
	}
	return fmt.Sprintf("Aggregate: group_expr=%s, aggregate_expr=%s",
		strings.Join(group, ", "), strings.Join(aggr, ", "))
}

// Limit truncates the row count of its input; its schema is identical to
// its input's.
type Limit struct {
	Input LogicalPlan
	N     int
}

func NewLimit(input LogicalPlan, n int) *Limit {
	return &Limit{Input: input, N: n}
}

func (l *Limit) Schema() *types.Schema   { return l.Input.Schema() }
func (l *Limit) Children() []LogicalPlan { return []LogicalPlan{l.Input} }
func (l *Limit) String() string          { return fmt.Sprintf("Limit: %d", l.N) }

// Format prints plan as a tab-indented tree: the node's display, then each
// child indented one more tab than its parent, per spec.md §6. This is the
// canonical form tests compare against and is stable under repeated calls.
func Format(plan LogicalPlan) string {
	var sb strings.Builder
	formatInto(&sb, plan, 0)
	return sb.String()
}

func formatInto(sb *strings.Builder, plan LogicalPlan, depth int) {
	sb.WriteString(strings.Repeat("\t", depth))
	sb.WriteString(plan.String())
	sb.WriteString("\n")
	for _, child := range plan.Children() {
		formatInto(sb, child, depth+1)
	}
}
