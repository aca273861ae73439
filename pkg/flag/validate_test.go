package flag_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/flag"
)

func validFlag() flag.Flag {
	return flag.Flag{
		Key:          "new-ui",
		Name:         "New UI",
		Type:         flag.TypeBoolean,
		Value:        json.RawMessage(`true`),
		DefaultValue: json.RawMessage(`false`),
		Enabled:      true,
	}
}

func TestFlagValidate(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()
		f := validFlag()
		f.Rules = []flag.Rule{{
			Attribute: "plan",
			Operator:  flag.OpEquals,
			Value:     flag.StringValue("pro"),
			Result:    json.RawMessage(`true`),
		}}
		f.Rollout = &flag.Rollout{Percentage: 25}
		f.Variants = []flag.Variant{
			{Name: "control", Weight: 50, Value: json.RawMessage(`false`)},
			{Name: "treatment", Weight: 50, Value: json.RawMessage(`true`)},
		}
		require.NoError(t, f.Validate())
	})

	t.Run("MissingKey", func(t *testing.T) {
		t.Parallel()
		f := validFlag()
		f.Key = ""
		assert.ErrorIs(t, f.Validate(), flag.ErrInvalidFlag)
	})

	t.Run("UnknownType", func(t *testing.T) {
		t.Parallel()
		f := validFlag()
		f.Type = "decimal"
		assert.ErrorIs(t, f.Validate(), flag.ErrInvalidFlag)
	})

	t.Run("RolloutPercentageOutOfRange", func(t *testing.T) {
		t.Parallel()
		for _, pct := range []int{-1, 101} {
			f := validFlag()
			f.Rollout = &flag.Rollout{Percentage: pct}
			assert.ErrorIs(t, f.Validate(), flag.ErrInvalidFlag, "percentage %d", pct)
		}
	})

	t.Run("RolloutWindowInverted", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		end := start.Add(-time.Hour)
		f := validFlag()
		f.Rollout = &flag.Rollout{Percentage: 10, Start: &start, End: &end}
		assert.ErrorIs(t, f.Validate(), flag.ErrInvalidFlag)
	})

	t.Run("VariantWeightsMustSumTo100", func(t *testing.T) {
		t.Parallel()
		f := validFlag()
		f.Variants = []flag.Variant{
			{Name: "a", Weight: 50, Value: json.RawMessage(`1`)},
			{Name: "b", Weight: 40, Value: json.RawMessage(`2`)},
		}
		err := f.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, flag.ErrInvalidFlag)
		assert.Contains(t, err.Error(), "sum to 90")
	})

	t.Run("DuplicateVariantNames", func(t *testing.T) {
		t.Parallel()
		f := validFlag()
		f.Variants = []flag.Variant{
			{Name: "a", Weight: 50, Value: json.RawMessage(`1`)},
			{Name: "a", Weight: 50, Value: json.RawMessage(`2`)},
		}
		assert.ErrorIs(t, f.Validate(), flag.ErrInvalidFlag)
	})

	t.Run("MalformedRules", func(t *testing.T) {
		t.Parallel()
		cases := map[string]flag.Rule{
			"missing attribute": {Operator: flag.OpEquals, Value: flag.StringValue("x"), Result: json.RawMessage(`1`)},
			"unknown operator":  {Attribute: "a", Operator: "regex", Value: flag.StringValue("x"), Result: json.RawMessage(`1`)},
			"missing value":     {Attribute: "a", Operator: flag.OpEquals, Result: json.RawMessage(`1`)},
			"empty in list":     {Attribute: "a", Operator: flag.OpIn, Result: json.RawMessage(`1`)},
			"one bound":         {Attribute: "a", Operator: flag.OpBetween, Values: []flag.Value{flag.NumberValue(1)}, Result: json.RawMessage(`1`)},
			"missing result":    {Attribute: "a", Operator: flag.OpEquals, Value: flag.StringValue("x")},
		}
		for name, rule := range cases {
			f := validFlag()
			f.Rules = []flag.Rule{rule}
			assert.ErrorIs(t, f.Validate(), flag.ErrInvalidFlag, name)
		}
	})
}
