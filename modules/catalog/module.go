// Package catalog provides the book catalog and its inventory ledger.
// This is the public API for the catalog bounded context.
package catalog

import (
	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/modules/catalog/application/commands"
	"github.com/rai/clean-bookstore-go/modules/catalog/application/queries"
	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	httphandler "github.com/rai/clean-bookstore-go/modules/catalog/infrastructure/http"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

// Module is the public API for the catalog bounded context.
type Module interface {
	// RegisterRoutes registers the module's HTTP routes on r.
	RegisterRoutes(r chi.Router)
}

// Config holds the module configuration.
type Config struct {
	Repository       domain.BookRepository
	TransactionScope transaction.Scope
	// Currency is applied to admin price inputs that omit one.
	Currency string
}

type module struct {
	handler *httphandler.Handler
}

// New creates a new catalog module.
func New(cfg Config) Module {
	handler := httphandler.NewHandler(
		commands.NewAddBookHandler(cfg.Repository),
		queries.NewGetBookHandler(cfg.Repository),
		commands.NewChangePriceHandler(cfg.Repository, cfg.TransactionScope),
		commands.NewAdjustStockHandler(cfg.Repository),
		cfg.Currency,
	)
	return &module{handler: handler}
}

func (m *module) RegisterRoutes(r chi.Router) {
	m.handler.RegisterRoutes(r)
}
