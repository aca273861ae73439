package flag

import (
	"context"
	"encoding/json"
	"time"
)

// Type enumerates the payload types a flag can serve.
type Type string

const (
	TypeBoolean Type = "boolean"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeJSON    Type = "json"
)

// Flag is a stored feature flag definition.
//
// Invariants, enforced by Validate before every write:
//   - variant weights sum to 100 integer percentage points
//   - rollout percentage lies in [0, 100]
//   - rule order is semantically significant and survives storage round-trips
//
// Value is served when a rollout admits the context; DefaultValue is
// the fallback for disabled flags, excluded buckets, and the final
// evaluation step. Payloads are kept as raw JSON so the stored bytes
// round-trip bit-for-bit whatever the declared Type.
type Flag struct {
	Key          string          `json:"key"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Type         Type            `json:"type"`
	Value        json.RawMessage `json:"value"`
	DefaultValue json.RawMessage `json:"default_value"`
	Enabled      bool            `json:"enabled"`
	Rules        []Rule          `json:"rules,omitempty"`
	Rollout      *Rollout        `json:"rollout,omitempty"`
	Variants     []Variant       `json:"variants,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	CreatedAt    time.Time       `json:"created_at,omitzero"`
	UpdatedAt    time.Time       `json:"updated_at,omitzero"`
}

// Rollout is a percentage rollout, optionally bounded to a time window
// and optionally keyed on a sticky context attribute instead of the
// context identifier.
type Rollout struct {
	Percentage      int        `json:"percentage"`
	Start           *time.Time `json:"start,omitempty"`
	End             *time.Time `json:"end,omitempty"`
	StickyAttribute string     `json:"sticky_attribute,omitempty"`
}

// Variant is one alternative value in a weighted A/B split.
type Variant struct {
	Name   string          `json:"name"`
	Weight int             `json:"weight"`
	Value  json.RawMessage `json:"value"`
}

// Store is the durable flag storage contract. Implementations must
// return flags exactly as last written, including rule and variant
// order, and must serialize writes per flag key.
type Store interface {
	// GetFlag returns the flag stored under key, or ErrFlagNotFound.
	GetFlag(ctx context.Context, key string) (Flag, error)

	// CreateFlag stores a new flag, or returns ErrFlagExists when the
	// key is already taken. The uniqueness check and the write are a
	// single atomic step, so concurrent creates of the same key cannot
	// overwrite each other.
	CreateFlag(ctx context.Context, flag Flag) error

	// SaveFlag stores the flag, overwriting any previous definition.
	// Callers validate before saving; stores never persist partially.
	SaveFlag(ctx context.Context, flag Flag) error

	// DeleteFlag removes the flag, or returns ErrFlagNotFound.
	DeleteFlag(ctx context.Context, key string) error

	// ListFlags returns all stored flags.
	ListFlags(ctx context.Context) ([]Flag, error)
}
