package flag_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/flag"
)

func boolFlag(key string, enabled bool) flag.Flag {
	return flag.Flag{
		Key:          key,
		Name:         key,
		Type:         flag.TypeBoolean,
		Value:        json.RawMessage(`true`),
		DefaultValue: json.RawMessage(`false`),
		Enabled:      enabled,
	}
}

func TestEvaluateDisabled(t *testing.T) {
	t.Parallel()

	f := boolFlag("dark-mode", false)
	// A disabled flag short-circuits everything else.
	f.Rules = []flag.Rule{{
		Attribute: "plan",
		Operator:  flag.OpEquals,
		Value:     flag.StringValue("pro"),
		Result:    json.RawMessage(`true`),
	}}
	f.Rollout = &flag.Rollout{Percentage: 100}

	d := flag.Evaluate(f, flag.Context{ID: "user-1", Attributes: map[string]flag.Value{"plan": flag.StringValue("pro")}}, time.Now())
	assert.Equal(t, flag.ReasonFlagDisabled, d.Reason)
	assert.JSONEq(t, `false`, string(d.Value))
}

func TestEvaluateRuleOrder(t *testing.T) {
	t.Parallel()

	f := boolFlag("theme", true)
	f.Type = flag.TypeString
	f.Rules = []flag.Rule{
		{Attribute: "attr", Operator: flag.OpEquals, Value: flag.StringValue("x"), Result: json.RawMessage(`"red"`)},
		{Attribute: "attr", Operator: flag.OpIn, Values: []flag.Value{flag.StringValue("x"), flag.StringValue("y")}, Result: json.RawMessage(`"blue"`)},
	}

	t.Run("FirstMatchWins", func(t *testing.T) {
		t.Parallel()
		d := flag.Evaluate(f, flag.Context{ID: "u", Attributes: map[string]flag.Value{"attr": flag.StringValue("x")}}, time.Now())
		assert.Equal(t, flag.ReasonRuleMatch, d.Reason)
		assert.JSONEq(t, `"red"`, string(d.Value))
		require.NotNil(t, d.RuleIndex)
		assert.Equal(t, 0, *d.RuleIndex)
	})

	t.Run("LaterRuleFires", func(t *testing.T) {
		t.Parallel()
		d := flag.Evaluate(f, flag.Context{ID: "u", Attributes: map[string]flag.Value{"attr": flag.StringValue("y")}}, time.Now())
		assert.Equal(t, flag.ReasonRuleMatch, d.Reason)
		assert.JSONEq(t, `"blue"`, string(d.Value))
		require.NotNil(t, d.RuleIndex)
		assert.Equal(t, 1, *d.RuleIndex)
	})

	t.Run("MissingAttributeFallsThrough", func(t *testing.T) {
		t.Parallel()
		d := flag.Evaluate(f, flag.Context{ID: "u"}, time.Now())
		assert.Equal(t, flag.ReasonDefault, d.Reason)
		assert.JSONEq(t, `false`, string(d.Value))
	})
}

func TestEvaluateRollout(t *testing.T) {
	t.Parallel()

	t.Run("DeterministicBucketing", func(t *testing.T) {
		t.Parallel()
		f := boolFlag("new-ui", true)
		f.Rollout = &flag.Rollout{Percentage: 25}
		ctx := flag.Context{ID: "user-42"}

		first := flag.Evaluate(f, ctx, time.Now())
		assert.Equal(t, flag.ReasonRolloutBucket, first.Reason)
		require.NotNil(t, first.Bucket)
		assert.Equal(t, flag.Bucket("user-42", "new-ui"), *first.Bucket)

		expected := `false`
		if *first.Bucket < 25 {
			expected = `true`
		}
		assert.JSONEq(t, expected, string(first.Value))

		for range 10 {
			again := flag.Evaluate(f, ctx, time.Now())
			assert.Equal(t, first, again)
		}
	})

	t.Run("FullAndZeroPercent", func(t *testing.T) {
		t.Parallel()
		f := boolFlag("everyone", true)
		f.Rollout = &flag.Rollout{Percentage: 100}
		d := flag.Evaluate(f, flag.Context{ID: "any-user"}, time.Now())
		assert.JSONEq(t, `true`, string(d.Value))

		f.Rollout.Percentage = 0
		d = flag.Evaluate(f, flag.Context{ID: "any-user"}, time.Now())
		assert.JSONEq(t, `false`, string(d.Value))
		assert.Equal(t, flag.ReasonRolloutBucket, d.Reason)
	})

	t.Run("OutsideWindowFallsThrough", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

		f := boolFlag("spring-sale", true)
		f.Rollout = &flag.Rollout{Percentage: 100, Start: &start, End: &end}

		before := start.Add(-time.Hour)
		after := end.Add(time.Hour)
		during := start.Add(24 * time.Hour)

		d := flag.Evaluate(f, flag.Context{ID: "u"}, before)
		assert.Equal(t, flag.ReasonDefault, d.Reason)

		d = flag.Evaluate(f, flag.Context{ID: "u"}, after)
		assert.Equal(t, flag.ReasonDefault, d.Reason)

		d = flag.Evaluate(f, flag.Context{ID: "u"}, during)
		assert.Equal(t, flag.ReasonRolloutBucket, d.Reason)
		assert.JSONEq(t, `true`, string(d.Value))
	})

	t.Run("ContextNowOverride", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		f := boolFlag("scheduled", true)
		f.Rollout = &flag.Rollout{Percentage: 100, Start: &start}

		frozen := start.Add(-time.Minute)
		d := flag.Evaluate(f, flag.Context{ID: "u", Now: &frozen}, time.Now())
		assert.Equal(t, flag.ReasonDefault, d.Reason)
	})

	t.Run("StickyAttribute", func(t *testing.T) {
		t.Parallel()
		f := boolFlag("by-tenant", true)
		f.Rollout = &flag.Rollout{Percentage: 50, StickyAttribute: "tenant_id"}

		ctx := flag.Context{
			ID:         "user-1",
			Attributes: map[string]flag.Value{"tenant_id": flag.StringValue("acme")},
		}
		d := flag.Evaluate(f, ctx, time.Now())
		require.NotNil(t, d.Bucket)
		assert.Equal(t, flag.Bucket("acme", "by-tenant"), *d.Bucket)

		// Without the attribute the context ID is the bucketing key.
		d = flag.Evaluate(f, flag.Context{ID: "user-1"}, time.Now())
		require.NotNil(t, d.Bucket)
		assert.Equal(t, flag.Bucket("user-1", "by-tenant"), *d.Bucket)
	})
}

func TestEvaluateVariants(t *testing.T) {
	t.Parallel()

	f := boolFlag("checkout", true)
	f.Type = flag.TypeString
	f.Variants = []flag.Variant{
		{Name: "control", Weight: 50, Value: json.RawMessage(`"old"`)},
		{Name: "treatment", Weight: 50, Value: json.RawMessage(`"new"`)},
	}

	t.Run("AssignsByBucket", func(t *testing.T) {
		t.Parallel()
		d := flag.Evaluate(f, flag.Context{ID: "user-7"}, time.Now())
		assert.Equal(t, flag.ReasonVariantAssignment, d.Reason)

		bucket := flag.Bucket("user-7", "checkout")
		expected, ok := flag.VariantFor(f.Variants, bucket)
		require.True(t, ok)
		assert.Equal(t, expected.Name, d.Variant)
		assert.Equal(t, string(expected.Value), string(d.Value))
	})

	t.Run("StableAcrossCalls", func(t *testing.T) {
		t.Parallel()
		first := flag.Evaluate(f, flag.Context{ID: "user-9"}, time.Now())
		for range 10 {
			assert.Equal(t, first, flag.Evaluate(f, flag.Context{ID: "user-9"}, time.Now()))
		}
	})

	t.Run("RuleBeatsVariants", func(t *testing.T) {
		t.Parallel()
		withRule := f
		withRule.Rules = []flag.Rule{{
			Attribute: "qa",
			Operator:  flag.OpEquals,
			Value:     flag.BoolValue(true),
			Result:    json.RawMessage(`"qa-build"`),
		}}
		d := flag.Evaluate(withRule, flag.Context{ID: "user-7", Attributes: map[string]flag.Value{"qa": flag.BoolValue(true)}}, time.Now())
		assert.Equal(t, flag.ReasonRuleMatch, d.Reason)
		assert.JSONEq(t, `"qa-build"`, string(d.Value))
	})
}

func TestEvaluateDefault(t *testing.T) {
	t.Parallel()

	f := boolFlag("plain", true)
	d := flag.Evaluate(f, flag.Context{ID: "u"}, time.Now())
	assert.Equal(t, flag.ReasonDefault, d.Reason)
	assert.JSONEq(t, `false`, string(d.Value))
	assert.Nil(t, d.Bucket)
	assert.Nil(t, d.RuleIndex)
	assert.Empty(t, d.Variant)
}
