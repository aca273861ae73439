package experiment

import "errors"

// Predefined errors for the experiment package.
var (
	// ErrSummaryFailed indicates the exposure events could not be read for aggregation.
	ErrSummaryFailed = errors.New("failed to summarize exposure events")
)
