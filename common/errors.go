package common

import (
	"errors"
)

// Common error constants
var (
	// ErrValidation is returned when a request or update payload violates field constraints
	ErrValidation = errors.New("validation failed")

	// ErrEncoding is returned when a configuration value cannot be encoded
	ErrEncoding = errors.New("configuration encoding failed")

	// ErrCorruption is returned when a stored configuration blob cannot be decoded
	ErrCorruption = errors.New("configuration blob corrupted")

	// ErrNotHydrated is returned when metadata is accessed on an unhydrated
	// response with no store handle attached
	ErrNotHydrated = errors.New("response metadata not hydrated")

	// ErrNotFound is returned when a referenced resource does not exist
	ErrNotFound = errors.New("resource not found")
)
