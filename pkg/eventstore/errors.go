package eventstore

import "errors"

// Predefined errors for the eventstore package.
var (
	// ErrRecordFailed indicates an exposure batch could not be written.
	ErrRecordFailed = errors.New("failed to record exposures")

	// ErrQueryFailed indicates stored exposures could not be read back.
	ErrQueryFailed = errors.New("failed to query exposures")
)
