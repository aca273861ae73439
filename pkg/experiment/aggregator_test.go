package experiment_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/experiment"
)

func exposures(flagKey, variant string, metrics ...float64) []experiment.Exposure {
	events := make([]experiment.Exposure, 0, len(metrics))
	for _, m := range metrics {
		events = append(events, experiment.NewExposure(flagKey, variant, m))
	}
	return events
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("MeanAndConfidenceInterval", func(t *testing.T) {
		t.Parallel()
		events := exposures("checkout", "treatment", 1, 2, 3)
		s := experiment.Summarize("checkout", events)

		vs, ok := s.Variants["treatment"]
		require.True(t, ok)
		assert.Equal(t, 3, vs.Count)
		assert.InDelta(t, 2.0, vs.Mean, 1e-9)

		// stddev([1,2,3]) = 1, half-width = 1.96 / sqrt(3)
		require.NotNil(t, vs.ConfidenceInterval)
		halfWidth := 1.96 / math.Sqrt(3)
		assert.InDelta(t, 2.0-halfWidth, vs.ConfidenceInterval.Low, 1e-9)
		assert.InDelta(t, 2.0+halfWidth, vs.ConfidenceInterval.High, 1e-9)
	})

	t.Run("SingleSampleHasNoInterval", func(t *testing.T) {
		t.Parallel()
		s := experiment.Summarize("checkout", exposures("checkout", "control", 1))

		vs, ok := s.Variants["control"]
		require.True(t, ok)
		assert.Equal(t, 1, vs.Count)
		assert.InDelta(t, 1.0, vs.Mean, 1e-9)
		assert.Nil(t, vs.ConfidenceInterval)
	})

	t.Run("GroupsByVariant", func(t *testing.T) {
		t.Parallel()
		events := append(
			exposures("checkout", "control", 0, 0, 1),
			exposures("checkout", "treatment", 1, 1, 0)...,
		)
		s := experiment.Summarize("checkout", events)

		require.Len(t, s.Variants, 2)
		assert.Equal(t, 3, s.Variants["control"].Count)
		assert.Equal(t, 3, s.Variants["treatment"].Count)
	})

	t.Run("IgnoresOtherFlags", func(t *testing.T) {
		t.Parallel()
		events := append(
			exposures("checkout", "control", 1),
			exposures("pricing", "control", 1, 1, 1)...,
		)
		s := experiment.Summarize("checkout", events)
		assert.Equal(t, 1, s.Variants["control"].Count)
	})

	t.Run("EmptyEventSet", func(t *testing.T) {
		t.Parallel()
		s := experiment.Summarize("checkout", nil)
		assert.Empty(t, s.Variants)
	})

	t.Run("Idempotent", func(t *testing.T) {
		t.Parallel()
		events := exposures("checkout", "treatment", 0.5, 1.5, 2.5, 3.5)
		first := experiment.Summarize("checkout", events)
		second := experiment.Summarize("checkout", events)
		assert.Equal(t, first, second)
	})
}

type stubSource struct {
	events []experiment.Exposure
	err    error
	calls  int
}

func (s *stubSource) ListExposures(_ context.Context, _ string, _, _ time.Time) ([]experiment.Exposure, error) {
	s.calls++
	return s.events, s.err
}

func TestAggregatorSummarize(t *testing.T) {
	t.Parallel()

	t.Run("ReadsFromSource", func(t *testing.T) {
		t.Parallel()
		source := &stubSource{events: exposures("checkout", "treatment", 1, 2)}
		agg := experiment.NewAggregator(source)

		from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)

		s, err := agg.Summarize(context.Background(), "checkout", from, to)
		require.NoError(t, err)
		assert.Equal(t, from, s.From)
		assert.Equal(t, to, s.To)
		assert.Equal(t, 2, s.Variants["treatment"].Count)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("WrapsSourceError", func(t *testing.T) {
		t.Parallel()
		source := &stubSource{err: assert.AnError}
		agg := experiment.NewAggregator(source)

		_, err := agg.Summarize(context.Background(), "checkout", time.Time{}, time.Time{})
		require.Error(t, err)
		assert.ErrorIs(t, err, experiment.ErrSummaryFailed)
	})
}
