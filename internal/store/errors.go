package store

import "errors"

var (
	// ErrNotFound is returned when no document matches the given id or filter.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when registration collides with an
	// existing account.
	ErrDuplicateEmail = errors.New("email already registered")
)
