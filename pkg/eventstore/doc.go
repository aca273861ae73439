// Package eventstore archives experiment exposure events.
//
// The Postgres implementation is the durable backend: exposures are
// appended in batches and read back per flag key with an optional time
// window, which is exactly the access pattern the experiment
// aggregator needs. Inserts are idempotent on the event ID so a retry
// after a partial batch failure never double-counts an exposure.
//
// The in-memory implementation mirrors the same contract for tests
// and local runs without a database.
package eventstore
