package storage

import "errors"

var (
	// ErrConflict is returned when an insert collides with an existing row.
	ErrConflict = errors.New("record already exists")
	// ErrFull is returned when a signup would exceed a shift's capacity.
	ErrFull = errors.New("shift is full")
	// ErrNotFound is returned when a write targets a row that does not exist.
	ErrNotFound = errors.New("record not found")
)
