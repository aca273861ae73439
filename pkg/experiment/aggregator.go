package experiment

import (
	"context"
	"errors"
	"math"
	"time"
)

// z-score for a 95% confidence level under the normal approximation.
const z95 = 1.96

// Interval is a two-sided confidence interval around a sample mean.
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// VariantSummary holds the per-variant statistics derived from
// recorded exposures. ConfidenceInterval is nil when fewer than two
// samples exist; it is undefined, not zero.
type VariantSummary struct {
	Count              int       `json:"count"`
	Mean               float64   `json:"mean"`
	ConfidenceInterval *Interval `json:"confidence_interval,omitempty"`
}

// Summary is a derived view over the exposure events of one flag.
// It is recomputed on demand and never persisted as authoritative state.
type Summary struct {
	FlagKey  string                    `json:"flag_key"`
	Variants map[string]VariantSummary `json:"variants"`
	From     time.Time                 `json:"from,omitzero"`
	To       time.Time                 `json:"to,omitzero"`
}

// Summarize groups exposures by variant and computes count, sample
// mean, and a 95% confidence interval (mean ± z * stddev / sqrt(n),
// sample standard deviation). It is deterministic and idempotent:
// the same event set always yields the same summary, and the input
// slice is never mutated.
func Summarize(flagKey string, events []Exposure) Summary {
	byVariant := make(map[string][]float64)
	for _, e := range events {
		if e.FlagKey != flagKey {
			continue
		}
		byVariant[e.Variant] = append(byVariant[e.Variant], e.Metric)
	}

	variants := make(map[string]VariantSummary, len(byVariant))
	for name, values := range byVariant {
		n := len(values)

		var sum float64
		for _, v := range values {
			sum += v
		}
		mean := sum / float64(n)

		vs := VariantSummary{Count: n, Mean: mean}
		if n >= 2 {
			var sq float64
			for _, v := range values {
				sq += (v - mean) * (v - mean)
			}
			stddev := math.Sqrt(sq / float64(n-1))
			halfWidth := z95 * stddev / math.Sqrt(float64(n))
			vs.ConfidenceInterval = &Interval{Low: mean - halfWidth, High: mean + halfWidth}
		}
		variants[name] = vs
	}

	return Summary{FlagKey: flagKey, Variants: variants}
}

// Aggregator computes summaries from a Source on demand.
type Aggregator struct {
	source Source
}

// NewAggregator creates an aggregator reading from the given source.
func NewAggregator(source Source) *Aggregator {
	return &Aggregator{source: source}
}

// Summarize performs a bounded bulk read of the flag's exposures and
// aggregates them in memory. It only reads; the underlying events are
// never modified.
func (a *Aggregator) Summarize(ctx context.Context, flagKey string, from, to time.Time) (Summary, error) {
	events, err := a.source.ListExposures(ctx, flagKey, from, to)
	if err != nil {
		return Summary{}, errors.Join(ErrSummaryFailed, err)
	}

	s := Summarize(flagKey, events)
	s.From = from
	s.To = to
	return s, nil
}
