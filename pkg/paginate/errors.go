package paginate

import "fmt"

// InvalidPageRequestError is returned when a page request violates its
// bounds (page number or page size below 1). It signals a caller bug and is
// raised before any data access; values are never silently clamped.
type InvalidPageRequestError struct {
	Page int
	Size int
}

func (e *InvalidPageRequestError) Error() string {
	return fmt.Sprintf("invalid page request: page=%d size=%d (both must be >= 1)", e.Page, e.Size)
}

// NewInvalidPageRequestError creates a new InvalidPageRequestError.
func NewInvalidPageRequestError(page, size int) *InvalidPageRequestError {
	return &InvalidPageRequestError{Page: page, Size: size}
}

// DataAccessError wraps an underlying storage failure surfaced by a backend.
// The paginator never retries; retry policy belongs to the caller.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed during %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// NewDataAccessError creates a new DataAccessError.
func NewDataAccessError(op string, err error) *DataAccessError {
	return &DataAccessError{Op: op, Err: err}
}
