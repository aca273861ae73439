package eventstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrymomot/flagkit/pkg/experiment"
)

// Memory is an in-memory exposure archive with the same windowing
// semantics as the Postgres implementation.
type Memory struct {
	mu     sync.RWMutex
	events []experiment.Exposure
	seen   map[string]struct{}
}

// NewMemory creates an empty in-memory archive.
func NewMemory() *Memory {
	return &Memory{seen: make(map[string]struct{})}
}

// RecordExposures appends the batch, skipping event IDs seen before.
func (m *Memory) RecordExposures(_ context.Context, events []experiment.Exposure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range events {
		if _, ok := m.seen[e.ID]; ok {
			continue
		}
		m.seen[e.ID] = struct{}{}
		m.events = append(m.events, e)
	}
	return nil
}

// ListExposures returns stored exposures for a flag, oldest first.
// Zero from/to values leave the corresponding bound open; both bounds
// are inclusive.
func (m *Memory) ListExposures(_ context.Context, flagKey string, from, to time.Time) ([]experiment.Exposure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []experiment.Exposure
	for _, e := range m.events {
		if e.FlagKey != flagKey {
			continue
		}
		if !from.IsZero() && e.At.Before(from) {
			continue
		}
		if !to.IsZero() && e.At.After(to) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].ID < out[j].ID
		}
		return out[i].At.Before(out[j].At)
	})
	return out, nil
}
