package flag

import (
	"context"
	"slices"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store implementation. It is useful for
// tests and for embedding the engine without external storage.
type MemoryStore struct {
	mu    sync.RWMutex
	flags map[string]Flag
}

// NewMemoryStore creates an in-memory store seeded with the given flags.
func NewMemoryStore(initial ...Flag) *MemoryStore {
	s := &MemoryStore{flags: make(map[string]Flag, len(initial))}
	for _, f := range initial {
		s.flags[f.Key] = cloneFlag(f)
	}
	return s
}

// GetFlag returns the flag stored under key, or ErrFlagNotFound.
func (s *MemoryStore) GetFlag(_ context.Context, key string) (Flag, error) {
	s.mu.RLock()
	f, ok := s.flags[key]
	s.mu.RUnlock()

	if !ok {
		return Flag{}, ErrFlagNotFound
	}
	return cloneFlag(f), nil
}

// CreateFlag stores a new flag, or returns ErrFlagExists. The check
// and the insert happen under one lock.
func (s *MemoryStore) CreateFlag(_ context.Context, f Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flags[f.Key]; ok {
		return ErrFlagExists
	}
	s.flags[f.Key] = cloneFlag(f)
	return nil
}

// SaveFlag stores the flag, overwriting any previous definition.
func (s *MemoryStore) SaveFlag(_ context.Context, f Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags[f.Key] = cloneFlag(f)
	return nil
}

// DeleteFlag removes the flag, or returns ErrFlagNotFound.
func (s *MemoryStore) DeleteFlag(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.flags[key]; !ok {
		return ErrFlagNotFound
	}
	delete(s.flags, key)
	return nil
}

// ListFlags returns all stored flags ordered by key.
func (s *MemoryStore) ListFlags(_ context.Context) ([]Flag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Flag, 0, len(s.flags))
	for _, f := range s.flags {
		result = append(result, cloneFlag(f))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// cloneFlag copies the flag deeply enough that callers cannot mutate
// stored rule or variant order through the returned value.
func cloneFlag(f Flag) Flag {
	c := f
	c.Rules = slices.Clone(f.Rules)
	c.Variants = slices.Clone(f.Variants)
	c.Tags = slices.Clone(f.Tags)
	if f.Rollout != nil {
		rollout := *f.Rollout
		c.Rollout = &rollout
	}
	return c
}
