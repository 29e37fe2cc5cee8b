// Package http provides HTTP handlers for the carts module.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/internal/platform/httpserver"
	"github.com/rai/clean-bookstore-go/modules/carts/application/commands"
	"github.com/rai/clean-bookstore-go/modules/carts/application/queries"
	"github.com/rai/clean-bookstore-go/modules/carts/domain"
)

type (
	ItemAdder interface {
		Handle(ctx context.Context, cmd commands.AddItemCommand) (commands.AddItemResult, error)
	}
	ItemRemover interface {
		Handle(ctx context.Context, cmd commands.RemoveItemCommand) (int, error)
	}
	CartClearer interface {
		Handle(ctx context.Context, cmd commands.ClearCartCommand) error
	}
	ItemLister interface {
		Handle(ctx context.Context, query queries.ListItemsQuery) (*queries.ListItemsResult, error)
	}
)

type Handler struct {
	addItem    ItemAdder
	removeItem ItemRemover
	clearCart  CartClearer
	listItems  ItemLister
}

func NewHandler(addItem ItemAdder, removeItem ItemRemover, clearCart CartClearer, listItems ItemLister) *Handler {
	return &Handler{
		addItem:    addItem,
		removeItem: removeItem,
		clearCart:  clearCart,
		listItems:  listItems,
	}
}

// RegisterRoutes registers the cart routes on r. Every route acts on the
// cart of the user named by the identity header.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.handleListItems)
	r.Delete("/cart", h.handleClearCart)
	r.Post("/cart/items", h.handleAddItem)
	r.Delete("/cart/items/{bookId}", h.handleRemoveItem)
}

type addItemRequest struct {
	BookID string `json:"book_id"`
}

type addItemResponse struct {
	LineID   string `json:"line_id"`
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

type removeItemResponse struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := httpserver.UserIDFromRequest(r)
	if err != nil {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return
	}

	var req addItemRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil || req.BookID == "" {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid_request", "book_id is required")
		return
	}

	result, err := h.addItem.Handle(r.Context(), commands.AddItemCommand{UserID: userID, BookID: req.BookID})
	if err != nil {
		handleError(w, err)
		return
	}

	httpserver.WriteJSON(w, http.StatusOK, addItemResponse{
		LineID:   result.LineID,
		BookID:   req.BookID,
		Quantity: result.Quantity,
	})
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := httpserver.UserIDFromRequest(r)
	if err != nil {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return
	}

	bookID := chi.URLParam(r, "bookId")
	remaining, err := h.removeItem.Handle(r.Context(), commands.RemoveItemCommand{UserID: userID, BookID: bookID})
	if err != nil {
		handleError(w, err)
		return
	}

	httpserver.WriteJSON(w, http.StatusOK, removeItemResponse{BookID: bookID, Quantity: remaining})
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID, err := httpserver.UserIDFromRequest(r)
	if err != nil {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return
	}

	if err := h.clearCart.Handle(r.Context(), commands.ClearCartCommand{UserID: userID}); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	userID, err := httpserver.UserIDFromRequest(r)
	if err != nil {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return
	}

	result, err := h.listItems.Handle(r.Context(), queries.ListItemsQuery{UserID: userID})
	if err != nil {
		handleError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, result)
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBookNotFound), errors.Is(err, domain.ErrCartLineNotFound):
		httpserver.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrOutOfStock):
		httpserver.WriteError(w, http.StatusConflict, "out_of_stock", err.Error())
	default:
		httpserver.WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
