package engine

import (
	"errors"
	"fmt"
)

// Base errors for errors.Is checks at the caller boundary.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

// Validation kinds. Every ValidationError matches ErrValidation as well as its kind.
var (
	ErrInvalidRange     = errors.New("invalid page range")
	ErrInvalidDelta     = errors.New("invalid unit delta")
	ErrInvalidFocusType = errors.New("invalid focus type")
	ErrAlreadyFinished  = errors.New("already finished")
	ErrInvariant        = errors.New("invariant violation")
	ErrInvalidInput     = errors.New("invalid input")
)

// ValidationError reports bad input. No state is mutated when it is returned.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.Kind != nil && target == e.Kind)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func validationf(kind error, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced id that does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
