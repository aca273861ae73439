package flagstore

import "errors"

// Predefined errors for the flagstore package.
var (
	// ErrUnavailable indicates the underlying Redis operation failed.
	ErrUnavailable = errors.New("flag store unavailable")

	// ErrMalformedFlag indicates a stored flag payload that no longer decodes.
	ErrMalformedFlag = errors.New("stored flag payload is malformed")
)
