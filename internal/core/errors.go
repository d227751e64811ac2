package core

import (
	"errors"
	"fmt"
)

// Expected precondition failures of the month rollover. Both are
// user-correctable conditions, not bugs: callers render a message and
// do not retry automatically.
var (
	ErrAlreadyRolledOver = errors.New("fixed expenses already exist for the target month")
	ErrNoSourceExpenses  = errors.New("no active fixed expenses found in the previous month")
)

// ErrConstraintViolation is surfaced as-is from the entity store, e.g.
// when deleting a supplier still referenced by purchases. The core does
// not attempt cascading deletes.
var ErrConstraintViolation = errors.New("constraint violation")

// DataAccessError wraps a store/transport failure. It is fatal to the
// current operation, surfaced verbatim and never retried by the core.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

// NewDataAccessError tags a store failure with the operation it broke.
func NewDataAccessError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

// IsDataAccess reports whether err is (or wraps) a DataAccessError.
func IsDataAccess(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}
