package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/clean-bookstore-go/modules/shared/events"
	"github.com/rai/clean-bookstore-go/modules/shared/events/contracts"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// OrderPlacedRoutingKey is the broker routing key for placed orders.
const OrderPlacedRoutingKey = "orders.order_placed"

// Broadcaster relays an integration message to an external broker.
type Broadcaster interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// OrderPlacedHandler confirms placed orders to the shopper and relays them
// to the broker when one is configured.
//
// It runs on the in-memory bus after the checkout transaction has
// committed, so it may perform external side effects. The event ID is
// carried to the broker for subscriber-side deduplication.
type OrderPlacedHandler struct {
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewOrderPlacedHandler creates the handler. broadcaster may be nil.
func NewOrderPlacedHandler(broadcaster Broadcaster, logger *slog.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{broadcaster: broadcaster, logger: logger}
}

func (h *OrderPlacedHandler) Handle(ctx context.Context, event events.Event) error {
	placed, ok := event.(contracts.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, contracts.OrderPlacedEventType)
	}

	total, err := types.NewMoney(placed.TotalAmount, placed.Currency)
	if err != nil {
		return fmt.Errorf("order %s: %w", placed.OrderID, err)
	}

	// Mock sending the confirmation.
	h.logger.InfoContext(ctx, "sending order confirmation",
		slog.String("order_id", placed.OrderID),
		slog.String("user_id", placed.UserID),
		slog.String("total", total.String()),
		slog.Int("lines", len(placed.Lines)),
		slog.String("action", "order_confirmation"))

	if h.broadcaster == nil {
		return nil
	}
	if err := h.broadcaster.PublishJSON(ctx, OrderPlacedRoutingKey, placed); err != nil {
		return fmt.Errorf("relaying order %s: %w", placed.OrderID, err)
	}
	return nil
}
