package flag

import (
	"encoding/json"
	"strings"
)

// Operator compares a context attribute against a rule's comparison value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpBetween     Operator = "between"
	OpNotBetween  Operator = "not_between"
)

// Rule is an ordered targeting rule. Scalar operators compare against
// Value; in/not_in test membership in Values; between/not_between use
// Values as the two inclusive bounds. Result is the payload returned
// when the rule matches.
type Rule struct {
	Attribute string          `json:"attribute"`
	Operator  Operator        `json:"operator"`
	Value     Value           `json:"value"`
	Values    []Value         `json:"values,omitempty"`
	Result    json.RawMessage `json:"result"`
}

// Matches reports whether the rule applies to the context.
//
// Matching fails closed: a missing attribute, a kind mismatch, or a
// failed numeric coercion all resolve to "rule does not apply". A
// malformed rule can never abort evaluation of the enclosing flag.
func (r Rule) Matches(ctx Context) bool {
	attr, ok := ctx.Attributes[r.Attribute]
	if !ok {
		return false
	}

	switch r.Operator {
	case OpEquals:
		return attr.Equal(r.Value)

	case OpNotEquals:
		// Kind mismatch is "rule does not apply", not "values differ".
		return attr.Kind() == r.Value.Kind() && !attr.Equal(r.Value)

	case OpContains, OpNotContains:
		s, okAttr := attr.AsString()
		sub, okVal := r.Value.AsString()
		if !okAttr || !okVal {
			return false
		}
		if r.Operator == OpContains {
			return strings.Contains(s, sub)
		}
		return !strings.Contains(s, sub)

	case OpGreaterThan, OpLessThan:
		a, okAttr := attr.Float()
		b, okVal := r.Value.Float()
		if !okAttr || !okVal {
			return false
		}
		if r.Operator == OpGreaterThan {
			return a > b
		}
		return a < b

	case OpIn:
		return containsValue(r.Values, attr)

	case OpNotIn:
		return len(r.Values) > 0 && !containsValue(r.Values, attr)

	case OpBetween, OpNotBetween:
		lo, hi, okBounds := r.bounds()
		a, okAttr := attr.Float()
		if !okBounds || !okAttr {
			return false
		}
		if r.Operator == OpBetween {
			return a >= lo && a <= hi
		}
		return a < lo || a > hi

	default:
		return false
	}
}

func (r Rule) bounds() (lo, hi float64, ok bool) {
	if len(r.Values) != 2 {
		return 0, 0, false
	}
	lo, okLo := r.Values[0].Float()
	hi, okHi := r.Values[1].Float()
	return lo, hi, okLo && okHi
}

func containsValue(list []Value, v Value) bool {
	for _, item := range list {
		if item.Equal(v) {
			return true
		}
	}
	return false
}
