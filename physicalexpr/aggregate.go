package physicalexpr

import (
	"fmt"

	"github.com/colquery/colquery/logicalplan"
	"github.com/colquery/colquery/types"
)

// Accumulator folds a stream of boxed column values into a single result,
// per spec.md §4.5. Accumulate is called once per non-null input value;
// Final returns the accumulated result, or nil if no value was ever seen;
// COUNT and COUNT_DISTINCT instead report 0 when no value was seen.
type Accumulator interface {
	Accumulate(v any)
	Final() any
}

// AggregateExpr pairs the expression an aggregate runs over with the kind
// of accumulator HashAggregateExec should instantiate per group, per
// spec.md §4.5's AggregateExpr.
type AggregateExpr struct {
	Kind           logicalplan.AggrKind
	Input          PhysicalExpr
	InputType      types.ArrowType
	OutputDataType types.ArrowType
}

func NewAggregateExpr(kind logicalplan.AggrKind, input PhysicalExpr, inputType, outputType types.ArrowType) *AggregateExpr {
	return &AggregateExpr{Kind: kind, Input: input, InputType: inputType, OutputDataType: outputType}
}

func (e *AggregateExpr) String() string { return fmt.Sprintf("%s(%s)", e.Kind, e.Input) }

// OutputType is the ArrowType of the accumulator's final value.
func (e *AggregateExpr) OutputType() types.ArrowType { return e.OutputDataType }

// CreateAccumulator builds a fresh, zero-valued accumulator for one group.
func (e *AggregateExpr) CreateAccumulator() Accumulator {
	switch e.Kind {
	case logicalplan.AggrSum:
		return newSumAccumulator(e.InputType)
	case logicalplan.AggrMax:
		return newMinMaxAccumulator(e.InputType, false)
	case logicalplan.AggrMin:
		return newMinMaxAccumulator(e.InputType, true)
	case logicalplan.AggrAvg:
		return &avgAccumulator{}
	case logicalplan.AggrCount:
		return &countAccumulator{}
	case logicalplan.AggrCountDistinct:
		return &countDistinctAccumulator{seen: make(map[any]struct{})}
	default:
		return &countAccumulator{}
	}
}

// countAccumulator implements COUNT: counts every Accumulate call
// regardless of value, since HashAggregateExec only calls Accumulate for
// non-null input values — a COUNT(expr) thus counts non-null rows, per
// spec.md's resolution of the null-handling Open Question. Final reports
// an Int32 (the declared COUNT output type), going null rather than
// wrapping if a single group's count ever exceeds Int32's range, the same
// "can't be represented exactly" convention CastExpr uses for narrowing.
type countAccumulator struct{ n int64 }

func (a *countAccumulator) Accumulate(any) { a.n++ }
func (a *countAccumulator) Final() any {
	v, ok := fitInt(a.n, types.Int32)
	if !ok {
		return nil
	}
	return v
}

// countDistinctAccumulator implements COUNT_DISTINCT over comparable boxed
// values (every ArrowType this engine carries is comparable). Final reports
// an Int32 the same way countAccumulator does.
type countDistinctAccumulator struct {
	seen map[any]struct{}
}

func (a *countDistinctAccumulator) Accumulate(v any) { a.seen[v] = struct{}{} }
func (a *countDistinctAccumulator) Final() any {
	v, ok := fitInt(int64(len(a.seen)), types.Int32)
	if !ok {
		return nil
	}
	return v
}

// newSumAccumulator implements SUM: starts null, and every non-null input
// adds into a running total kept in the input's own native Go type, the same
// way the ground-truth SumAccumulator folds same-typed values with a plain
// `+`. A narrow column (e.g. Int8) that overflows wraps the way native Go
// integer addition does rather than silently going null, matching native
// `+` overflow behavior instead of CastExpr's range-checked narrowing. A
// group that never sees a value finalizes to null, not zero.
func newSumAccumulator(dt types.ArrowType) Accumulator {
	switch dt {
	case types.Int8:
		return &sumAccumulatorInt[int8]{}
	case types.Int16:
		return &sumAccumulatorInt[int16]{}
	case types.Int32:
		return &sumAccumulatorInt[int32]{}
	case types.Int64:
		return &sumAccumulatorInt[int64]{}
	case types.UInt8:
		return &sumAccumulatorUint[uint8]{}
	case types.UInt16:
		return &sumAccumulatorUint[uint16]{}
	case types.UInt32:
		return &sumAccumulatorUint[uint32]{}
	case types.UInt64:
		return &sumAccumulatorUint[uint64]{}
	case types.Float32:
		return &sumAccumulatorFloat[float32]{}
	case types.Float64:
		return &sumAccumulatorFloat[float64]{}
	default:
		return &sumAccumulatorInt[int64]{}
	}
}

type sumAccumulatorInt[T signedInt] struct {
	sum  T
	seen bool
}

func (a *sumAccumulatorInt[T]) Accumulate(v any) {
	a.sum += v.(T)
	a.seen = true
}

func (a *sumAccumulatorInt[T]) Final() any {
	if !a.seen {
		return nil
	}
	return a.sum
}

type sumAccumulatorUint[T unsignedInt] struct {
	sum  T
	seen bool
}

func (a *sumAccumulatorUint[T]) Accumulate(v any) {
	a.sum += v.(T)
	a.seen = true
}

func (a *sumAccumulatorUint[T]) Final() any {
	if !a.seen {
		return nil
	}
	return a.sum
}

type sumAccumulatorFloat[T anyFloat] struct {
	sum  T
	seen bool
}

func (a *sumAccumulatorFloat[T]) Accumulate(v any) {
	a.sum += v.(T)
	a.seen = true
}

func (a *sumAccumulatorFloat[T]) Final() any {
	if !a.seen {
		return nil
	}
	return a.sum
}

// minMaxAccumulator implements MAX (min=false) and MIN (min=true), keeping
// the running extreme in its native boxed form and comparing with the
// shared compare() used by BinaryExpr.
type minMaxAccumulator struct {
	dt    types.ArrowType
	isMin bool
	value any
	seen  bool
}

func newMinMaxAccumulator(dt types.ArrowType, isMin bool) *minMaxAccumulator {
	return &minMaxAccumulator{dt: dt, isMin: isMin}
}

func (a *minMaxAccumulator) Accumulate(v any) {
	if !a.seen {
		a.value = v
		a.seen = true
		return
	}
	cmp := compare(a.dt, v, a.value)
	if (a.isMin && cmp < 0) || (!a.isMin && cmp > 0) {
		a.value = v
	}
}

func (a *minMaxAccumulator) Final() any {
	if !a.seen {
		return nil
	}
	return a.value
}

// avgAccumulator implements AVG, always reporting a Float64 mean per
// spec.md §3's AVG -> Float64 ToField rule; a group with no inputs
// finalizes to null, not 0.0.
type avgAccumulator struct {
	sum   float64
	count int64
}

func (a *avgAccumulator) Accumulate(v any) {
	f, _ := asFloat(v)
	a.sum += f
	a.count++
}

func (a *avgAccumulator) Final() any {
	if a.count == 0 {
		return nil
	}
	return a.sum / float64(a.count)
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	if u, ok := asUint64(v); ok {
		return float64(u), true
	}
	return 0, false
}
