package redis

import "errors"

var (
	// ErrInvalidConnectionURL reports an unparseable REDIS_URL value.
	ErrInvalidConnectionURL = errors.New("invalid redis connection URL")
	// ErrConnectFailed reports that Redis did not answer a ping within
	// the configured retry budget.
	ErrConnectFailed = errors.New("redis connect failed")
	// ErrHealthcheckFailed reports a failed readiness ping.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
