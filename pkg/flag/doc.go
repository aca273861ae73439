// Package flag implements the feature flag targeting and evaluation
// engine: the pure logic that decides, for a flag definition and an
// evaluation context, which value a client receives.
//
// The package is built around four core concepts:
//
//  1. Flags - stored definitions with ordered targeting rules, an
//     optional percentage rollout, and optional weighted variants
//  2. Rules - attribute conditions evaluated in declared order with
//     first-match-wins, fail-closed semantics
//  3. Bucketing - deterministic FNV-1a hashing of an identifier into
//     [0, 99] for stable rollout and variant assignment
//  4. Stores - durable persistence behind the Store interface, with an
//     in-memory implementation for tests and embedding
//
// Evaluation is a total, state-free function: it performs no I/O,
// takes no locks, and always produces a Decision. Structural
// invariants (variant weights summing to 100, rollout percentage in
// range, well-formed rules) are enforced by Validate at write time, so
// the evaluation path never has to reject a stored flag.
//
// # Usage
//
//	f := flag.Flag{
//		Key:          "new-ui",
//		Name:         "New UI",
//		Type:         flag.TypeBoolean,
//		Value:        json.RawMessage(`true`),
//		DefaultValue: json.RawMessage(`false`),
//		Enabled:      true,
//		Rollout:      &flag.Rollout{Percentage: 25},
//	}
//
//	decision := flag.Evaluate(f, flag.Context{ID: "user-42"}, time.Now())
//	// decision.Reason == flag.ReasonRolloutBucket
//
// Repeated evaluations with the same inputs yield the same decision as
// long as the flag key (the bucketing salt) is unchanged.
package flag
