// Package dataframe implements the fluent data-frame builder, grounded on
// the teacher's PlanBuilder (server/innodb/plan/logical_plan.go's
// buildSelect) but restyled as an immutable, chainable builder per
// spec.md §4.3: each mutator wraps the current plan in the matching
// logical node and returns a new DataFrame, never mutating in place.
package dataframe

import (
	"github.com/colquery/colquery/datasource"
	"github.com/colquery/colquery/logicalplan"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
)

// DataFrame wraps a logical plan and exposes the builder operations that
// grow it.
type DataFrame struct {
	plan logicalplan.LogicalPlan
}

// New wraps an existing logical plan in a DataFrame; used by Scan
// constructors and by the optimizer/execution layers when rebuilding a
// DataFrame around a rewritten plan.
func New(plan logicalplan.LogicalPlan) *DataFrame {
	return &DataFrame{plan: plan}
}

// FromCSV builds a DataFrame scanning a CSV file.
func FromCSV(path string, schema *types.Schema, hasHeaders bool, batchSize int) (*DataFrame, error) {
	source, err := datasource.NewCSVSource(path, schema, hasHeaders, batchSize)
	if err != nil {
		return nil, err
	}
	scan, err := logicalplan.NewScan(path, source, nil)
	if err != nil {
		return nil, err
	}
	return New(scan), nil
}

// FromInMemory builds a DataFrame scanning a fixed slice of batches.
func FromInMemory(schema *types.Schema, batches []*record.RecordBatch) (*DataFrame, error) {
	source := datasource.NewInMemorySource(schema, batches)
	scan, err := logicalplan.NewScan("in_memory", source, nil)
	if err != nil {
		return nil, err
	}
	return New(scan), nil
}

func (df *DataFrame) LogicalPlan() logicalplan.LogicalPlan { return df.plan }
func (df *DataFrame) Schema() *types.Schema                { return df.plan.Schema() }

// Project returns a new DataFrame computing exprs over the current plan.
func (df *DataFrame) Project(exprs ...logicalplan.Expr) (*DataFrame, error) {
	p, err := logicalplan.NewProjection(df.plan, exprs)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Filter returns a new DataFrame selecting rows matching predicate.
func (df *DataFrame) Filter(predicate logicalplan.Expr) *DataFrame {
	return New(logicalplan.NewSelection(df.plan, predicate))
}

// Aggregate returns a new DataFrame grouping by groupExprs and computing
// aggrExprs per group.
func (df *DataFrame) Aggregate(groupExprs, aggrExprs []logicalplan.Expr) (*DataFrame, error) {
	a, err := logicalplan.NewAggregate(df.plan, groupExprs, aggrExprs)
	if err != nil {
		return nil, err
	}
	return New(a), nil
}

// Limit returns a new DataFrame truncating to the first n rows.
func (df *DataFrame) Limit(n int) *DataFrame {
	return New(logicalplan.NewLimit(df.plan, n))
}
