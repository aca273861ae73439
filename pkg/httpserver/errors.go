package httpserver

import "errors"

var (
	// ErrStartFailed reports that the listener could not start or
	// terminated abnormally.
	ErrStartFailed = errors.New("http server start failed")
	// ErrShutdownFailed reports that graceful shutdown did not
	// complete within the allotted time.
	ErrShutdownFailed = errors.New("http server shutdown failed")
)
