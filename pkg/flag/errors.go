package flag

import "errors"

// Predefined errors for the flag package.
var (
	// ErrFlagNotFound indicates that the requested feature flag does not exist.
	ErrFlagNotFound = errors.New("feature flag not found")

	// ErrFlagExists indicates an attempt to create a flag under a key that is taken.
	ErrFlagExists = errors.New("feature flag already exists")

	// ErrInvalidFlag indicates that a flag definition violates a data-model invariant.
	ErrInvalidFlag = errors.New("invalid feature flag")

	// ErrInvalidValue indicates an attribute value that is not a string, number, or bool.
	ErrInvalidValue = errors.New("invalid attribute value")
)
