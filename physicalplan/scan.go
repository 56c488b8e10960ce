package physicalplan

import (
	"fmt"

	"github.com/colquery/colquery/datasource"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
)

// ScanExec delegates directly to a DataSource's Scan, per spec.md §4.6.
type ScanExec struct {
	Source     datasource.DataSource
	Projection []string
	schema     *types.Schema
}

func NewScanExec(source datasource.DataSource, projection []string) (*ScanExec, error) {
	schema := source.Schema()
	if len(projection) > 0 {
		var err error
		schema, err = schema.Select(projection)
		if err != nil {
			return nil, err
		}
	}
	return &ScanExec{Source: source, Projection: projection, schema: schema}, nil
}

func (e *ScanExec) Schema() *types.Schema     { return e.schema }
func (e *ScanExec) Children() []PhysicalPlan  { return nil }
func (e *ScanExec) Execute() (record.BatchIterator, error) {
	return e.Source.Scan(e.Projection)
}

func (e *ScanExec) String() string {
	if len(e.Projection) == 0 {
		return "ScanExec: projection=None"
	}
	return fmt.Sprintf("ScanExec: projection=%v", e.Projection)
}
