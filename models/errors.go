package models

import (
	"fmt"
)

// ValidationError is malformed input: bad date, out-of-range group number,
// missing required field. Nothing was mutated.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError means a referenced department, employee or date has no record.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func NewNotFoundError(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError is a uniqueness violation, e.g. a duplicate name on rename.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func NewConflictError(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// StoreError wraps a transactional failure. The enclosing operation was rolled
// back as a whole, so re-invoking it is safe.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
