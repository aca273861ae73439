// Package notifier delivers flag change events to registered webhook
// endpoints.
//
// Every flag create, update, and delete produces one Event, posted as
// JSON to each endpoint in the registry. Delivery retries transient
// failures with exponential backoff and gives up immediately on
// permanent HTTP rejections. When a signing secret is configured,
// requests carry an HMAC-SHA256 signature bound to a timestamp so
// receivers can authenticate payloads and reject replays.
//
// Delivery is best effort. A failing endpoint never blocks or fails
// the flag mutation that triggered the event; failures are logged and
// dropped.
package notifier
