// Package redis provides helpers for connecting to a Redis server.
//
// Connect retries the initial connection using the supplied Config,
// whose fields are populated from environment variables. Healthcheck
// returns a probe function for readiness endpoints.
//
//	cfg := redis.Config{ConnectionURL: "redis://localhost:6379/0", RetryAttempts: 3}
//	client, err := redis.Connect(ctx, cfg)
//
// Sentinel errors wrap the underlying go-redis errors with
// errors.Join so callers can classify failures with errors.Is.
package redis
