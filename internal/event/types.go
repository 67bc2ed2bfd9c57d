package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "tasks.changed").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Base provides common fields for all events.
// Embed it in concrete event types to satisfy the Event interface.
type Base struct {
	eventType string
	timestamp time.Time
}

func (e Base) EventType() string    { return e.eventType }
func (e Base) Timestamp() time.Time { return e.timestamp }

// NewBase creates a Base stamped with the current time.
func NewBase(eventType string) Base {
	return Base{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// Event type identifiers published by the storage writer.
const (
	TypeWriteCompleted = "storage.write_completed"
	TypeWriteFailed    = "storage.write_failed"
)

// WriteCompletedEvent is emitted after a debounced write reaches the backend.
type WriteCompletedEvent struct {
	Base
	Key       string // Storage key that was written
	Bytes     int    // Size of the serialized payload
	Coalesced int    // Number of Schedule calls folded into this write
}

// NewWriteCompletedEvent creates a WriteCompletedEvent.
func NewWriteCompletedEvent(key string, bytes, coalesced int) WriteCompletedEvent {
	return WriteCompletedEvent{
		Base:      NewBase(TypeWriteCompleted),
		Key:       key,
		Bytes:     bytes,
		Coalesced: coalesced,
	}
}

// WriteFailedEvent is emitted when a debounced write could not be persisted.
// In-memory state is unaffected; the next write for Key supersedes it.
type WriteFailedEvent struct {
	Base
	Key string // Storage key that failed
	Err string // Error message
}

// NewWriteFailedEvent creates a WriteFailedEvent.
func NewWriteFailedEvent(key string, err error) WriteFailedEvent {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return WriteFailedEvent{
		Base: NewBase(TypeWriteFailed),
		Key:  key,
		Err:  msg,
	}
}
