// Package flagstore persists feature flag definitions and the webhook
// endpoint registry in Redis.
//
// Each flag is stored under its own key ("flag:<key>") as a single
// JSON document, with a plain set ("flags") indexing the known keys.
// Storing the whole definition as one document guarantees that rule
// and variant order survive round-trips exactly as written and that a
// flag is never persisted partially. Webhook endpoints live in a
// second set ("webhooks"), mirroring the layout the admin API expects.
//
// Redis applies commands for a single key serially, which gives the
// store the single-authoritative-writer-per-key property flag
// mutations rely on.
package flagstore
