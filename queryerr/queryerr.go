// Package queryerr defines the typed error kinds raised by the query engine.
//
// Every kind is its own exported struct so callers can branch on it with
// errors.As instead of matching strings. The execution package wraps the
// errors of config loading, optimization, planning and execution with
// github.com/juju/errors, so the trace gains a call-site annotation while
// errors.Cause still recovers the original kind; the other packages return
// these values unwrapped.
package queryerr

import "fmt"

// UnknownColumnError is raised when an expression references a column name
// that does not occur in the enclosing plan's schema.
type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column: %s", e.Name)
}

// UnknownFieldError is raised by Schema.Select when a requested field name
// does not occur in the schema.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field: %s", e.Name)
}

// IndexOutOfRangeError is raised when a ColumnIndex expression resolves
// against a schema that doesn't have that many fields.
type IndexOutOfRangeError struct {
	Index int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index out of range: %d", e.Index)
}

// TypeMismatchError is raised by binary/boolean physical evaluation when the
// two operand columns carry different ArrowTypes.
type TypeMismatchError struct {
	Left, Right fmt.Stringer
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s vs %s", e.Left, e.Right)
}

// LengthMismatchError is raised by binary physical evaluation when the two
// operand columns have different lengths.
type LengthMismatchError struct {
	Left, Right int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: %d vs %d", e.Left, e.Right)
}

// UnsupportedTypeError is raised by math evaluation over a non-numeric
// ArrowType and by NOT over a non-Boolean operand.
type UnsupportedTypeError struct {
	Type fmt.Stringer
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Type)
}

// UnsupportedPlanError is raised by the optimizer or the query planner when
// it encounters a logical plan variant it does not implement.
type UnsupportedPlanError struct {
	Kind string
}

func (e *UnsupportedPlanError) Error() string {
	return fmt.Sprintf("unsupported plan: %s", e.Kind)
}

// UnsupportedExpressionError is raised by the query planner when it
// encounters an expression variant it does not implement.
type UnsupportedExpressionError struct {
	Kind string
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("unsupported expression: %s", e.Kind)
}

// ArithmeticFailureError is raised by math physical expression evaluation,
// e.g. integer division by zero.
type ArithmeticFailureError struct {
	Reason string
}

func (e *ArithmeticFailureError) Error() string {
	return fmt.Sprintf("arithmetic failure: %s", e.Reason)
}

// SourceIoFailureError is raised when a data source cannot be read at all
// (as opposed to a single malformed record, which is dropped silently).
type SourceIoFailureError struct {
	Path   string
	Reason string
}

func (e *SourceIoFailureError) Error() string {
	return fmt.Sprintf("source io failure reading %s: %s", e.Path, e.Reason)
}
