package flag

import (
	"encoding/json"
	"time"
)

// Reason explains which evaluation step produced a decision.
type Reason string

const (
	ReasonFlagDisabled      Reason = "flag_disabled"
	ReasonRuleMatch         Reason = "rule_match"
	ReasonRolloutBucket     Reason = "rollout_bucket"
	ReasonVariantAssignment Reason = "variant_assignment"
	ReasonDefault           Reason = "default"
)

// Context carries the data a flag is evaluated against: a stable
// identifier used for bucketing and a bag of typed attributes.
type Context struct {
	ID         string           `json:"id"`
	Attributes map[string]Value `json:"attributes,omitempty"`

	// Now overrides the evaluation clock, for deterministic testing
	// of time-bounded rollouts.
	Now *time.Time `json:"now,omitempty"`
}

// BucketKey returns the identifier to bucket on. When the rollout
// names a sticky attribute and the context carries it, that attribute
// wins; otherwise the context ID is used.
func (c Context) BucketKey(stickyAttribute string) string {
	if stickyAttribute != "" {
		if v, ok := c.Attributes[stickyAttribute]; ok {
			return v.String()
		}
	}
	return c.ID
}

// Decision is the result of evaluating a flag against a context.
// RuleIndex is set for rule matches, Bucket for rollout and variant
// assignments, Variant for variant assignments.
type Decision struct {
	FlagKey   string          `json:"flag_key"`
	Value     json.RawMessage `json:"value"`
	Reason    Reason          `json:"reason"`
	Variant   string          `json:"variant,omitempty"`
	RuleIndex *int            `json:"rule_index,omitempty"`
	Bucket    *int            `json:"bucket,omitempty"`
}

// Evaluate decides which value the context receives. It is a pure
// function of the flag definition, the context, and the clock: no I/O,
// no locking, safe to call concurrently against shared flags. Stored
// flags are assumed to satisfy the invariants Validate enforces at
// write time, so Evaluate always returns a Decision and never an error.
//
// Steps, first applicable wins:
//  1. disabled flag returns the default value
//  2. targeting rules in declared order, first match wins
//  3. a rollout whose time window contains now buckets the context
//     against its percentage; an inactive window falls through
//  4. variants assign by cumulative weight over the context bucket
//  5. default value
func Evaluate(f Flag, ctx Context, now time.Time) Decision {
	if ctx.Now != nil {
		now = *ctx.Now
	}

	if !f.Enabled {
		return Decision{FlagKey: f.Key, Value: f.DefaultValue, Reason: ReasonFlagDisabled}
	}

	for i, rule := range f.Rules {
		if rule.Matches(ctx) {
			idx := i
			return Decision{FlagKey: f.Key, Value: rule.Result, Reason: ReasonRuleMatch, RuleIndex: &idx}
		}
	}

	if f.Rollout != nil && rolloutActive(f.Rollout, now) {
		bucket := Bucket(ctx.BucketKey(f.Rollout.StickyAttribute), f.Key)
		d := Decision{FlagKey: f.Key, Reason: ReasonRolloutBucket, Bucket: &bucket}
		if bucket < f.Rollout.Percentage {
			d.Value = f.Value
		} else {
			d.Value = f.DefaultValue
		}
		return d
	}

	if len(f.Variants) > 0 {
		bucket := Bucket(ctx.ID, f.Key)
		if v, ok := VariantFor(f.Variants, bucket); ok {
			return Decision{FlagKey: f.Key, Value: v.Value, Reason: ReasonVariantAssignment, Variant: v.Name, Bucket: &bucket}
		}
	}

	return Decision{FlagKey: f.Key, Value: f.DefaultValue, Reason: ReasonDefault}
}

// rolloutActive reports whether now falls inside the rollout window.
// Bounds are inclusive; an unset bound is open.
func rolloutActive(r *Rollout, now time.Time) bool {
	if r.Start != nil && now.Before(*r.Start) {
		return false
	}
	if r.End != nil && now.After(*r.End) {
		return false
	}
	return true
}
