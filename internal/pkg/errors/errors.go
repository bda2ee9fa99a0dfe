package errors

import "errors"

var (
	// ErrValidation is a generic sentinel for missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a generic sentinel for duplicate or racing writes.
	ErrConflict = errors.New("conflict")
	// ErrBackendUnavailable marks transient store failures; callers may retry.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInternal is a generic sentinel for unexpected failures.
	ErrInternal = errors.New("internal error")
)
