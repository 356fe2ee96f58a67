package core

import (
	"errors"
)

// Validation failure kinds. Every *ValidationError unwraps to one of these.
var (
	ErrEmptyIdentifier    = errors.New("empty identifier")
	ErrTooLong            = errors.New("too long")
	ErrForbiddenCharacter = errors.New("forbidden character")
	ErrEmptyContent       = errors.New("empty content")
	ErrInvalidEncoding    = errors.New("invalid encoding")
)

// Repository failure kinds.
var (
	ErrNotFound     = errors.New("not found")
	ErrWriteFailure = errors.New("write failure")
	ErrReadFailure  = errors.New("read failure")
)

// ValidationError is returned when an identifier or a paste body is rejected.
// Its message is meant to be shown to the client as is.
type ValidationError struct {
	Kind error
	msg  string
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Unwrap() error { return e.Kind }

// NotFoundError carries the identifier that was looked up.
type NotFoundError struct {
	ID PasteID
}

func (e *NotFoundError) Error() string { return "Not found: " + e.ID.String() }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// WriteFailureError reports a backend that could not persist a paste.
type WriteFailureError struct {
	Err error
}

func (e *WriteFailureError) Error() string { return "Failed to write: " + e.Err.Error() }

func (e *WriteFailureError) Unwrap() error { return e.Err }

func (e *WriteFailureError) Is(target error) bool { return target == ErrWriteFailure }

// ReadFailureError reports a backend that could not be read. The in-memory
// store never returns it.
type ReadFailureError struct {
	Err error
}

func (e *ReadFailureError) Error() string { return "Failed to read: " + e.Err.Error() }

func (e *ReadFailureError) Unwrap() error { return e.Err }

func (e *ReadFailureError) Is(target error) bool { return target == ErrReadFailure }
