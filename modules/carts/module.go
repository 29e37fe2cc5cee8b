// Package carts provides per-user shopping carts.
// This is the public API for the carts bounded context.
package carts

import (
	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/modules/carts/application/commands"
	"github.com/rai/clean-bookstore-go/modules/carts/application/queries"
	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	httphandler "github.com/rai/clean-bookstore-go/modules/carts/infrastructure/http"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

// Module is the public API for the carts bounded context.
type Module interface {
	// RegisterRoutes registers the module's HTTP routes on r.
	RegisterRoutes(r chi.Router)
}

// Config holds the module configuration.
type Config struct {
	Repository       domain.CartRepository
	Books            domain.BookLookup
	TransactionScope transaction.Scope
	RejectOutOfStock bool
}

type module struct {
	handler *httphandler.Handler
}

// New creates a new carts module.
func New(cfg Config) Module {
	handler := httphandler.NewHandler(
		commands.NewAddItemHandler(cfg.Repository, cfg.Books, cfg.TransactionScope, cfg.RejectOutOfStock),
		commands.NewRemoveItemHandler(cfg.Repository, cfg.TransactionScope),
		commands.NewClearCartHandler(cfg.Repository),
		queries.NewListItemsHandler(cfg.Repository),
	)
	return &module{handler: handler}
}

func (m *module) RegisterRoutes(r chi.Router) {
	m.handler.RegisterRoutes(r)
}
