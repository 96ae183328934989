package spec

import "fmt"

// UnsupportedPredicateError is returned when a backend translator encounters
// a predicate leaf it cannot express natively. It is always surfaced to the
// caller; translators never fall back silently.
type UnsupportedPredicateError struct {
	Backend string
	Field   string
	Op      Operator
}

func (e *UnsupportedPredicateError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s backend cannot translate opaque predicate %q", e.Backend, e.Field)
	}
	return fmt.Sprintf("%s backend cannot translate operator %q on field %q", e.Backend, e.Op, e.Field)
}

// NewUnsupportedPredicateError creates a new UnsupportedPredicateError.
func NewUnsupportedPredicateError(backend, field string, op Operator) *UnsupportedPredicateError {
	return &UnsupportedPredicateError{Backend: backend, Field: field, Op: op}
}

// PredicateEvaluationError wraps an error raised by an in-memory predicate
// during evaluation, typically from malformed entity data. It is distinct
// from a "not satisfied" result and is never swallowed.
type PredicateEvaluationError struct {
	Field string
	Err   error
}

func (e *PredicateEvaluationError) Error() string {
	return fmt.Sprintf("predicate on field %q failed: %v", e.Field, e.Err)
}

func (e *PredicateEvaluationError) Unwrap() error {
	return e.Err
}

// NewPredicateEvaluationError wraps err as a PredicateEvaluationError unless
// it already is one, so nested combinators do not stack wrappers.
func NewPredicateEvaluationError(field string, err error) error {
	if _, ok := err.(*PredicateEvaluationError); ok {
		return err
	}
	return &PredicateEvaluationError{Field: field, Err: err}
}
