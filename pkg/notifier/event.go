package notifier

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted on flag mutations.
const (
	EventFlagCreated = "flag_created"
	EventFlagUpdated = "flag_updated"
	EventFlagDeleted = "flag_deleted"
)

// Event is the payload posted to webhook endpoints when a flag
// changes. OldValue and NewValue hold full flag definitions as raw
// JSON; created events have no OldValue and deleted events no
// NewValue.
type Event struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	FlagKey   string          `json:"flag_key"`
	OldValue  json.RawMessage `json:"old_value,omitempty"`
	NewValue  json.RawMessage `json:"new_value,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent builds an event with a fresh ID and the current time.
func NewEvent(eventType, flagKey string, oldValue, newValue json.RawMessage) Event {
	return Event{
		ID:        uuid.NewString(),
		EventType: eventType,
		FlagKey:   flagKey,
		OldValue:  oldValue,
		NewValue:  newValue,
		Timestamp: time.Now().UTC(),
	}
}
