// Package notifications reacts to placed orders: it confirms them to the
// shopper and relays them to the message broker.
package notifications

import (
	"log/slog"

	"github.com/rai/clean-bookstore-go/modules/notifications/application/eventhandlers"
	"github.com/rai/clean-bookstore-go/modules/shared/events"
	"github.com/rai/clean-bookstore-go/modules/shared/events/contracts"
)

// Module represents the notification module entry point.
type Module struct{}

type Config struct {
	EventSubscriber events.Subscriber
	// Broadcaster relays events to the broker. Nil disables the relay.
	Broadcaster eventhandlers.Broadcaster
	Logger      *slog.Logger
}

// New initializes the notification module and subscribes to events.
func New(cfg Config) (*Module, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "notifications")

	orderPlaced := eventhandlers.NewOrderPlacedHandler(cfg.Broadcaster, logger)
	if err := cfg.EventSubscriber.Subscribe(contracts.OrderPlacedEventType, orderPlaced); err != nil {
		return nil, err
	}

	return &Module{}, nil
}
