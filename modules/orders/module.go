// Package orders provides checkout and order history.
// This is the public API for the orders bounded context.
package orders

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/modules/orders/application/commands"
	"github.com/rai/clean-bookstore-go/modules/orders/application/queries"
	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	httphandler "github.com/rai/clean-bookstore-go/modules/orders/infrastructure/http"
	"github.com/rai/clean-bookstore-go/modules/shared/events"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

// Module is the public API for the orders bounded context.
// External communication: HTTP API (RegisterRoutes)
// Cross-module communication: ports implemented by the composition root,
// and OrderPlacedEvent published after every checkout.
type Module interface {
	// RegisterRoutes registers the module's HTTP routes on r.
	RegisterRoutes(r chi.Router)
}

// Config holds the module configuration.
type Config struct {
	Repository       domain.OrderRepository
	Carts            domain.CartSource
	Inventory        domain.Inventory
	Titles           domain.BookTitles
	TransactionScope transaction.Scope
	// ReadScope gives queries a consistent snapshot. Defaults to
	// TransactionScope.
	ReadScope      transaction.Scope
	EventPublisher events.Publisher
	Observer       commands.CheckoutObserver
	Logger         *slog.Logger
}

type module struct {
	handler *httphandler.Handler
}

// New creates a new orders module.
func New(cfg Config) Module {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "orders")

	readScope := cfg.ReadScope
	if readScope == nil {
		readScope = cfg.TransactionScope
	}

	checkout := commands.NewCheckoutHandler(
		cfg.Repository,
		cfg.Carts,
		cfg.Inventory,
		cfg.TransactionScope,
		cfg.EventPublisher,
		cfg.Observer,
		logger,
	)

	return &module{
		handler: httphandler.NewHandler(
			checkout,
			queries.NewGetOrderHandler(cfg.Repository, cfg.Titles, readScope),
			queries.NewListUserOrdersHandler(cfg.Repository, cfg.Titles, readScope),
		),
	}
}

func (m *module) RegisterRoutes(r chi.Router) {
	m.handler.RegisterRoutes(r)
}
