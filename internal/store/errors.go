package store

import "errors"

var (
	// ErrUnknownCollection is returned for a collection with no table.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrUnknownField is returned when a record or filter names a field
	// the collection does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidValue is returned when a value cannot be stored in its column.
	ErrInvalidValue = errors.New("invalid value")
	// ErrNotFound is returned by Update and Increment for a missing id.
	ErrNotFound = errors.New("record not found")
)
