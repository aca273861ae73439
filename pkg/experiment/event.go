package experiment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Exposure records one assignment of a context to a flag variant
// together with a numeric metric value (a 0/1 conversion or a
// continuous measurement). Exposures are append-only and never mutated.
type Exposure struct {
	ID      string    `json:"id"`
	FlagKey string    `json:"flag_key"`
	Variant string    `json:"variant"`
	Metric  float64   `json:"metric"`
	At      time.Time `json:"at"`
}

// NewExposure stamps an exposure with a fresh ID and UTC timestamp.
func NewExposure(flagKey, variant string, metric float64) Exposure {
	return Exposure{
		ID:      uuid.NewString(),
		FlagKey: flagKey,
		Variant: variant,
		Metric:  metric,
		At:      time.Now().UTC(),
	}
}

// Sink accepts exposure events for durable storage. At-most-once
// delivery is acceptable: dropped events degrade statistical
// confidence, never evaluation correctness.
type Sink interface {
	RecordExposures(ctx context.Context, events []Exposure) error
}

// Source reads stored exposure events back for aggregation.
// A zero from or to bound is open.
type Source interface {
	ListExposures(ctx context.Context, flagKey string, from, to time.Time) ([]Exposure, error)
}
