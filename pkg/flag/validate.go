package flag

import (
	"errors"
	"fmt"
)

// Validate checks the data-model invariants. It runs at write time,
// never at evaluation time: a flag accepted here is always evaluable.
// Violations are returned joined with ErrInvalidFlag and name the
// specific invariant broken.
func (f Flag) Validate() error {
	if f.Key == "" {
		return errors.Join(ErrInvalidFlag, errors.New("flag key is required"))
	}
	if f.Name == "" {
		return errors.Join(ErrInvalidFlag, errors.New("flag name is required"))
	}

	switch f.Type {
	case TypeBoolean, TypeString, TypeNumber, TypeJSON:
	default:
		return errors.Join(ErrInvalidFlag, fmt.Errorf("unknown flag type %q", f.Type))
	}

	for i, rule := range f.Rules {
		if err := rule.validate(); err != nil {
			return errors.Join(ErrInvalidFlag, fmt.Errorf("rule %d: %w", i, err))
		}
	}

	if r := f.Rollout; r != nil {
		if r.Percentage < 0 || r.Percentage > 100 {
			return errors.Join(ErrInvalidFlag, fmt.Errorf("rollout percentage %d outside [0,100]", r.Percentage))
		}
		if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
			return errors.Join(ErrInvalidFlag, errors.New("rollout window end precedes start"))
		}
	}

	if len(f.Variants) > 0 {
		total := 0
		seen := make(map[string]struct{}, len(f.Variants))
		for i, v := range f.Variants {
			if v.Name == "" {
				return errors.Join(ErrInvalidFlag, fmt.Errorf("variant %d: name is required", i))
			}
			if _, dup := seen[v.Name]; dup {
				return errors.Join(ErrInvalidFlag, fmt.Errorf("duplicate variant name %q", v.Name))
			}
			seen[v.Name] = struct{}{}
			if v.Weight < 0 || v.Weight > 100 {
				return errors.Join(ErrInvalidFlag, fmt.Errorf("variant %q: weight %d outside [0,100]", v.Name, v.Weight))
			}
			total += v.Weight
		}
		if total != 100 {
			return errors.Join(ErrInvalidFlag, fmt.Errorf("variant weights sum to %d, want 100", total))
		}
	}

	return nil
}

func (r Rule) validate() error {
	if r.Attribute == "" {
		return errors.New("attribute is required")
	}

	switch r.Operator {
	case OpEquals, OpNotEquals, OpContains, OpNotContains, OpGreaterThan, OpLessThan:
		if r.Value.Kind() == KindInvalid {
			return fmt.Errorf("operator %q requires a comparison value", r.Operator)
		}
	case OpIn, OpNotIn:
		if len(r.Values) == 0 {
			return fmt.Errorf("operator %q requires a non-empty value list", r.Operator)
		}
	case OpBetween, OpNotBetween:
		if len(r.Values) != 2 {
			return fmt.Errorf("operator %q requires exactly two bounds", r.Operator)
		}
	default:
		return fmt.Errorf("unknown operator %q", r.Operator)
	}

	if len(r.Result) == 0 {
		return errors.New("result value is required")
	}

	return nil
}
