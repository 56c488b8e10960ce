// Package execution implements ExecutionContext, the process-wide state
// holding engine settings and a registry of named data frames, per
// spec.md §4.8. Grounded on the teacher's session/context plumbing
// (server/innodb/context) but narrowed to exactly the settings map and
// data-frame registry the spec calls for.
package execution

import (
	"github.com/juju/errors"

	"github.com/colquery/colquery/config"
	"github.com/colquery/colquery/dataframe"
	"github.com/colquery/colquery/logger"
	"github.com/colquery/colquery/optimizer"
	"github.com/colquery/colquery/physicalplan"
	"github.com/colquery/colquery/planner"
	"github.com/colquery/colquery/queryerr"
	"github.com/colquery/colquery/record"
	"github.com/colquery/colquery/types"
)

// ExecutionContext holds engine-wide settings and a registry of named data
// frames. Concurrent use by multiple callers is not supported, per spec.md
// §5's shared-resource note.
type ExecutionContext struct {
	settings map[string]int
	frames   map[string]*dataframe.DataFrame
}

const settingCSVBatchSize = "csv.batch_size"

// NewExecutionContext builds a context with default settings, per
// config.DefaultEngineConfig.
func NewExecutionContext() *ExecutionContext {
	return newWithConfig(config.DefaultEngineConfig())
}

// NewExecutionContextFromFile builds a context whose settings are loaded
// from a TOML config file, falling back to defaults when the file is
// absent, per config.Load.
func NewExecutionContextFromFile(path string) (*ExecutionContext, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Annotatef(err, "loading engine config from %q", path)
	}
	return newWithConfig(cfg), nil
}

func newWithConfig(cfg config.EngineConfig) *ExecutionContext {
	return &ExecutionContext{
		settings: map[string]int{settingCSVBatchSize: cfg.CSVBatchSize},
		frames:   make(map[string]*dataframe.DataFrame),
	}
}

// CSVBatchSize returns the context's configured csv.batch_size setting.
func (ctx *ExecutionContext) CSVBatchSize() int { return ctx.settings[settingCSVBatchSize] }

// SetCSVBatchSize overrides csv.batch_size for data frames built after the
// call; it does not affect already-constructed data frames.
func (ctx *ExecutionContext) SetCSVBatchSize(n int) {
	if n > 0 {
		ctx.settings[settingCSVBatchSize] = n
	}
}

// CSV builds a DataFrame scanning path with the context's batch size.
func (ctx *ExecutionContext) CSV(path string, hasHeaders bool) (*dataframe.DataFrame, error) {
	return dataframe.FromCSV(path, nil, hasHeaders, ctx.CSVBatchSize())
}

// InMemory builds a DataFrame scanning a fixed slice of already-built
// batches.
func (ctx *ExecutionContext) InMemory(schema *types.Schema, batches []*record.RecordBatch) (*dataframe.DataFrame, error) {
	return dataframe.FromInMemory(schema, batches)
}

// Register adds df to the registry under name, overwriting any existing
// entry with the same name.
func (ctx *ExecutionContext) Register(name string, df *dataframe.DataFrame) {
	ctx.frames[name] = df
	logger.Log.Debugf("registered data frame %q", name)
}

// RegisterCSV is a convenience combining CSV and Register.
func (ctx *ExecutionContext) RegisterCSV(name, path string, hasHeaders bool) error {
	df, err := ctx.CSV(path, hasHeaders)
	if err != nil {
		return err
	}
	ctx.Register(name, df)
	return nil
}

// Lookup returns a previously registered data frame by name.
func (ctx *ExecutionContext) Lookup(name string) (*dataframe.DataFrame, bool) {
	df, ok := ctx.frames[name]
	return df, ok
}

// Execute optionally runs the projection push-down optimizer, lowers df's
// logical plan to a physical plan, and returns its batch iterator.
func (ctx *ExecutionContext) Execute(df *dataframe.DataFrame, optimize bool) (record.BatchIterator, error) {
	plan := df.LogicalPlan()
	if optimize {
		optimized, err := optimizer.Optimize(plan)
		if err != nil {
			return nil, errors.Trace(err)
		}
		plan = optimized
	}

	physical, err := planner.Plan(plan)
	if err != nil {
		return nil, errors.Trace(err)
	}
	it, err := physical.Execute()
	return it, errors.Trace(err)
}

// ExecutePlan runs an already-built physical plan directly, bypassing the
// registry, the optimizer and the planner; exposed for callers (tests, CLI
// tooling) that already hold a physicalplan.PhysicalPlan.
func ExecutePlan(plan physicalplan.PhysicalPlan) (record.BatchIterator, error) {
	if plan == nil {
		return nil, &queryerr.UnsupportedPlanError{Kind: "nil physical plan"}
	}
	return plan.Execute()
}
