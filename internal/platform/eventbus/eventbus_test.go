package eventbus_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rai/clean-bookstore-go/internal/platform/eventbus"
	"github.com/rai/clean-bookstore-go/modules/shared/events"
)

type testEvent struct {
	events.BaseEvent
}

func newTestEvent(eventType events.EventType) testEvent {
	return testEvent{BaseEvent: events.NewBaseEvent(eventType, "agg-1")}
}

func TestBus_DeliversToSubscribersOfType(t *testing.T) {
	bus := eventbus.New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var got []string
	_ = bus.Subscribe("a", eventbus.HandlerFunc(func(ctx context.Context, e events.Event) error {
		got = append(got, "a1:"+e.EventType().String())
		return nil
	}))
	_ = bus.Subscribe("a", eventbus.HandlerFunc(func(ctx context.Context, e events.Event) error {
		got = append(got, "a2:"+e.EventType().String())
		return nil
	}))
	_ = bus.Subscribe("b", eventbus.HandlerFunc(func(ctx context.Context, e events.Event) error {
		got = append(got, "b:"+e.EventType().String())
		return nil
	}))

	if err := bus.Publish(context.Background(), newTestEvent("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0] != "a1:a" || got[1] != "a2:a" {
		t.Errorf("unexpected deliveries: %v", got)
	}
}

func TestBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := eventbus.New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	delivered := false
	_ = bus.Subscribe("a", eventbus.HandlerFunc(func(ctx context.Context, e events.Event) error {
		return errors.New("handler failed")
	}))
	_ = bus.Subscribe("a", eventbus.HandlerFunc(func(ctx context.Context, e events.Event) error {
		delivered = true
		return nil
	}))

	if err := bus.Publish(context.Background(), newTestEvent("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delivered {
		t.Error("expected second handler to run")
	}
}

func TestBus_PanickingSubscriberIsContained(t *testing.T) {
	bus := eventbus.New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	delivered := false
	_ = bus.Subscribe("a", eventbus.HandlerFunc(func(ctx context.Context, e events.Event) error {
		panic("broken relay")
	}))
	_ = bus.Subscribe("a", eventbus.HandlerFunc(func(ctx context.Context, e events.Event) error {
		delivered = true
		return nil
	}))

	if err := bus.Publish(context.Background(), newTestEvent("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delivered {
		t.Error("expected second handler to run after the first panicked")
	}
}

func TestBus_RejectsNilHandler(t *testing.T) {
	bus := eventbus.New(nil)

	if err := bus.Subscribe("a", nil); err == nil {
		t.Error("expected an error for a nil handler")
	}
}
