// Package app is the composition root: it connects the modules to one
// storage backend and to each other.
package app

import (
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/modules/carts"
	"github.com/rai/clean-bookstore-go/modules/catalog"
	"github.com/rai/clean-bookstore-go/modules/notifications"
	"github.com/rai/clean-bookstore-go/modules/notifications/application/eventhandlers"
	"github.com/rai/clean-bookstore-go/modules/orders"
	"github.com/rai/clean-bookstore-go/modules/orders/application/commands"
	"github.com/rai/clean-bookstore-go/modules/shared/events"
)

// EventBus is what the modules need from the in-process event bus.
type EventBus interface {
	events.Publisher
	events.Subscriber
}

// Options holds everything the modules are built from.
type Options struct {
	Stores   Stores
	EventBus EventBus
	// Broadcaster relays placed orders to the broker. Nil disables it.
	Broadcaster      eventhandlers.Broadcaster
	CheckoutObserver commands.CheckoutObserver
	Currency         string
	RejectOutOfStock bool
	Logger           *slog.Logger
}

// App holds the wired modules.
type App struct {
	catalog catalog.Module
	carts   carts.Module
	orders  orders.Module
}

// New wires every module.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := opts.Stores

	catalogModule := catalog.New(catalog.Config{
		Repository:       s.Books,
		TransactionScope: s.TransactionScope,
		Currency:         opts.Currency,
	})

	cartsModule := carts.New(carts.Config{
		Repository:       s.Carts,
		Books:            cartBooks{books: s.Books},
		TransactionScope: s.TransactionScope,
		RejectOutOfStock: opts.RejectOutOfStock,
	})

	ordersModule := orders.New(orders.Config{
		Repository:       s.Orders,
		Carts:            cartSource{carts: s.Carts},
		Inventory:        inventory{books: s.Books},
		Titles:           bookTitles{books: s.Books},
		TransactionScope: s.TransactionScope,
		ReadScope:        s.ReadScope,
		EventPublisher:   opts.EventBus,
		Observer:         opts.CheckoutObserver,
		Logger:           logger,
	})

	if _, err := notifications.New(notifications.Config{
		EventSubscriber: opts.EventBus,
		Broadcaster:     opts.Broadcaster,
		Logger:          logger,
	}); err != nil {
		return nil, fmt.Errorf("initializing notifications: %w", err)
	}

	return &App{catalog: catalogModule, carts: cartsModule, orders: ordersModule}, nil
}

// RegisterRoutes mounts every module's routes on r.
func (a *App) RegisterRoutes(r chi.Router) {
	a.catalog.RegisterRoutes(r)
	a.carts.RegisterRoutes(r)
	a.orders.RegisterRoutes(r)
}
