package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failed precondition maps to exactly one of these;
// callers match with errors.Is and correct their input.
var (
	// ErrInvalidParameter is returned when a required parameter is out of range
	// or malformed (confidence level, win rate, simulation count, series shape).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInsufficientData is returned when a series has fewer points than a
	// component's documented minimum.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDivisionGuard is returned instead of dividing by zero (zero volatility,
	// zero total portfolio value).
	ErrDivisionGuard = errors.New("division by zero guarded")

	// ErrNotFound is returned when a requested catalog entry does not exist.
	ErrNotFound = errors.New("not found")
)

// Error carries the error kind plus the offending field so a caller can
// correct input and retry. Unwraps to its kind sentinel.
type Error struct {
	Kind   error
	Field  string
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Detail)
}

// Unwrap returns the kind sentinel for errors.Is matching.
func (e *Error) Unwrap() error {
	return e.Kind
}

// InvalidParameterError builds an ErrInvalidParameter for a field.
func InvalidParameterError(field, detail string) error {
	return &Error{Kind: ErrInvalidParameter, Field: field, Detail: detail}
}

// InsufficientDataError builds an ErrInsufficientData for a field.
func InsufficientDataError(field, detail string) error {
	return &Error{Kind: ErrInsufficientData, Field: field, Detail: detail}
}

// DivisionGuardError builds an ErrDivisionGuard for a field.
func DivisionGuardError(field, detail string) error {
	return &Error{Kind: ErrDivisionGuard, Field: field, Detail: detail}
}

// NotFoundError builds an ErrNotFound for a field.
func NotFoundError(field, detail string) error {
	return &Error{Kind: ErrNotFound, Field: field, Detail: detail}
}
