package storage

import "errors"

var (
	// ErrUnavailable reports that the backing document could not be read
	// or written.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrCorrupt reports that the backing document does not parse as the
	// expected structure.
	ErrCorrupt = errors.New("corrupt data")
	// ErrNotFound reports that no record with the requested id exists.
	ErrNotFound = errors.New("not found")
)
