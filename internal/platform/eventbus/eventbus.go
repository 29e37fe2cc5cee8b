// Package eventbus delivers committed domain events to the modules that
// subscribed to them. Delivery is synchronous and in process.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rai/clean-bookstore-go/modules/shared/events"
)

// Bus routes events by type. Publishers call it only after their
// transaction has committed, so subscribers may talk to the outside world.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[events.EventType][]events.Handler
	logger      *slog.Logger
}

func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[events.EventType][]events.Handler),
		logger:      logger,
	}
}

// Publish hands each event to every subscriber of its type in
// subscription order. It never fails: the fact is already durable, so a
// broken subscriber is logged and the rest still run.
func (b *Bus) Publish(ctx context.Context, evts ...events.Event) error {
	for _, evt := range evts {
		for _, h := range b.subscribersOf(evt.EventType()) {
			if err := deliver(ctx, h, evt); err != nil {
				b.logger.ErrorContext(ctx, "event subscriber failed",
					slog.String("event_type", evt.EventType().String()),
					slog.String("event_id", evt.EventID()),
					slog.String("aggregate_id", evt.AggregateID()),
					slog.Any("error", err),
				)
			}
		}
	}
	return nil
}

// Subscribe adds handler for eventType.
func (b *Bus) Subscribe(eventType events.EventType, handler events.Handler) error {
	if handler == nil {
		return fmt.Errorf("eventbus: nil handler for %s", eventType)
	}
	b.mu.Lock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
	b.mu.Unlock()

	b.logger.Debug("event subscription added", slog.String("event_type", eventType.String()))
	return nil
}

func (b *Bus) subscribersOf(eventType events.EventType) []events.Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Handler(nil), b.subscribers[eventType]...)
}

// deliver turns a subscriber panic into an error so the checkout that
// published the event still gets its response.
func deliver(ctx context.Context, h events.Handler, evt events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eventbus: subscriber panicked: %v", r)
		}
	}()
	return h.Handle(ctx, evt)
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event events.Event) error

func (f HandlerFunc) Handle(ctx context.Context, event events.Event) error {
	return f(ctx, event)
}

var (
	_ events.Publisher  = (*Bus)(nil)
	_ events.Subscriber = (*Bus)(nil)
)
