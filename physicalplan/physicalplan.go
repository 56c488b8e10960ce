// Package physicalplan implements the lazy, single-threaded physical
// operators ScanExec, SelectionExec, ProjectionExec, HashAggregateExec, and
// LimitExec, grounded on the teacher's physical-plan iterator shape
// (server/innodb/plan/physical_plan.go's ConvertToPhysicalPlan chain) but
// restyled around the pull-based record.BatchIterator contract spec.md
// §4.6 specifies, rather than the teacher's row-cursor model.
package physicalplan

import (
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
)

// PhysicalPlan is the physical counterpart of logicalplan.LogicalPlan: a
// schema, its children, and an Execute that returns a lazy batch iterator.
type PhysicalPlan interface {
	Schema() *types.Schema
	Children() []PhysicalPlan
	Execute() (record.BatchIterator, error)
	String() string
}
