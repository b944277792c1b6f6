package storage

import "errors"

// Storage errors. Price history is append-only: bars are never updated in
// place, so a key collision is always a caller mistake.
var (
	// ErrNotFound is returned when no history exists for a symbol.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a (symbol, timestamp) that
	// already exists.
	ErrDuplicateKey = errors.New("duplicate key: price history is append-only")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
