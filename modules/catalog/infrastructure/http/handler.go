// Package http provides HTTP handlers for the catalog module.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/internal/platform/httpserver"
	"github.com/rai/clean-bookstore-go/modules/catalog/application/commands"
	"github.com/rai/clean-bookstore-go/modules/catalog/application/queries"
	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// BookCreator, BookReader, PriceChanger and StockAdjuster are the use cases
// the handler depends on.
type (
	BookCreator interface {
		Handle(ctx context.Context, cmd commands.AddBookCommand) (string, error)
	}
	BookReader interface {
		Handle(ctx context.Context, query queries.GetBookQuery) (*queries.BookDTO, error)
	}
	PriceChanger interface {
		Handle(ctx context.Context, cmd commands.ChangePriceCommand) error
	}
	StockAdjuster interface {
		Handle(ctx context.Context, cmd commands.AdjustStockCommand) (int, error)
	}
)

type Handler struct {
	addBook     BookCreator
	getBook     BookReader
	changePrice PriceChanger
	adjustStock StockAdjuster
	currency    string
}

func NewHandler(addBook BookCreator, getBook BookReader, changePrice PriceChanger, adjustStock StockAdjuster, currency string) *Handler {
	return &Handler{
		addBook:     addBook,
		getBook:     getBook,
		changePrice: changePrice,
		adjustStock: adjustStock,
		currency:    currency,
	}
}

// RegisterRoutes registers the catalog routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/books", h.handleAddBook)
	r.Get("/books/{id}", h.handleGetBook)
	r.Put("/books/{id}/price", h.handleChangePrice)
	r.Post("/books/{id}/stock", h.handleAdjustStock)
}

// Request/Response DTOs

type addBookRequest struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	Currency     string `json:"currency"`
	InitialStock int    `json:"initial_stock"`
}

type addBookResponse struct {
	ID string `json:"id"`
}

type changePriceRequest struct {
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

type adjustStockResponse struct {
	Stock int `json:"stock"`
}

// Handlers

func (h *Handler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	id, err := h.addBook.Handle(r.Context(), commands.AddBookCommand{
		Title:        req.Title,
		Author:       req.Author,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		Currency:     h.currencyOr(req.Currency),
		InitialStock: req.InitialStock,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httpserver.WriteJSON(w, http.StatusCreated, addBookResponse{ID: id})
}

func (h *Handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.getBook.Handle(r.Context(), queries.GetBookQuery{BookID: chi.URLParam(r, "id")})
	if err != nil {
		handleError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, book)
}

func (h *Handler) handleChangePrice(w http.ResponseWriter, r *http.Request) {
	var req changePriceRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	err := h.changePrice.Handle(r.Context(), commands.ChangePriceCommand{
		BookID:   chi.URLParam(r, "id"),
		Price:    req.Price,
		Currency: h.currencyOr(req.Currency),
	})
	if err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAdjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	stock, err := h.adjustStock.Handle(r.Context(), commands.AdjustStockCommand{
		BookID: chi.URLParam(r, "id"),
		Delta:  req.Delta,
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, adjustStockResponse{Stock: stock})
}

func (h *Handler) currencyOr(currency string) string {
	if currency == "" {
		return h.currency
	}
	return currency
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		httpserver.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		httpserver.WriteError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, domain.ErrTitleRequired),
		errors.Is(err, domain.ErrAuthorRequired),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrNegativeStock),
		errors.Is(err, domain.ErrZeroAdjustment),
		errors.Is(err, types.ErrInvalidAmount),
		errors.Is(err, types.ErrInvalidCurrency):
		httpserver.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		httpserver.WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
