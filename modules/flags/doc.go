// Package flags exposes the flag service over HTTP: admin CRUD for
// flag definitions and webhook endpoints behind bearer-token auth,
// plus public evaluation and experiment summary routes.
//
// The service layer validates every mutation before it reaches the
// store, fires change events to the notifier best-effort after the
// write, and records exposures through the background recorder when
// an evaluation request asks for it. Evaluation itself is a pure
// function of the stored definition and the caller's context.
package flags
