// Package events defines the domain events modules exchange in process.
// A module announces what happened without knowing who listens.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a kind of event as "<module>.<PastTenseVerb>", e.g.
// "orders.OrderPlaced".
type EventType string

func (t EventType) String() string { return string(t) }

// Event is an immutable fact raised by an aggregate.
type Event interface {
	EventID() string
	EventType() EventType
	OccurredAt() time.Time
	// AggregateID identifies the aggregate instance that raised the event.
	AggregateID() string
}

// BaseEvent carries the envelope every event shares. Concrete events embed
// it and add their payload fields; the JSON form is what the broker relay
// sends.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      EventType `json:"event_type"`
	Timestamp time.Time `json:"occurred_at"`
	Aggregate string    `json:"aggregate_id"`
}

// NewBaseEvent stamps a fresh envelope with a random ID and the current time.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Aggregate: aggregateID,
	}
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) EventType() EventType  { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }

// Publisher hands committed events to their subscribers.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// Handler reacts to one event. Handlers run after the transaction that
// raised the event has committed.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// Subscriber registers handlers per event type.
type Subscriber interface {
	Subscribe(eventType EventType, handler Handler) error
}
