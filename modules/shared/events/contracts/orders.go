// Package contracts defines public event contracts for inter-module communication.
// Modules should import event types from here, NOT from other module's domain packages.
package contracts

import "github.com/rai/clean-bookstore-go/modules/shared/events"

// Order module event types.
const (
	OrderPlacedEventType events.EventType = "orders.OrderPlaced"
)

// OrderPlacedEvent is published once a checkout has committed.
// Amounts are in minor currency units.
type OrderPlacedEvent struct {
	events.BaseEvent
	OrderID     string            `json:"order_id"`
	UserID      string            `json:"user_id"`
	TotalAmount int64             `json:"total_amount"`
	Currency    string            `json:"currency"`
	Lines       []OrderPlacedLine `json:"lines"`
}

// OrderPlacedLine is the per-book part of OrderPlacedEvent.
type OrderPlacedLine struct {
	BookID    string `json:"book_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}
