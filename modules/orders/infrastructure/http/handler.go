// Package http provides HTTP handlers for the orders module.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/internal/platform/httpserver"
	"github.com/rai/clean-bookstore-go/modules/orders/application/commands"
	"github.com/rai/clean-bookstore-go/modules/orders/application/queries"
	"github.com/rai/clean-bookstore-go/modules/orders/domain"
)

type (
	CheckoutRunner interface {
		Handle(ctx context.Context, cmd commands.CheckoutCommand) (*commands.CheckoutResult, error)
	}
	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.OrderDTO, error)
	}
	OrderLister interface {
		Handle(ctx context.Context, query queries.ListUserOrdersQuery) (*queries.OrderListDTO, error)
	}
)

type Handler struct {
	checkout   CheckoutRunner
	getOrder   OrderReader
	listOrders OrderLister
}

func NewHandler(checkout CheckoutRunner, getOrder OrderReader, listOrders OrderLister) *Handler {
	return &Handler{checkout: checkout, getOrder: getOrder, listOrders: listOrders}
}

// RegisterRoutes registers the orders module routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout", h.handleCheckout)
	r.Get("/orders", h.handleListUserOrders)
	r.Get("/orders/{id}", h.handleGetOrder)
}

// insufficientStockResponse tells the shopper which book ran short.
type insufficientStockResponse struct {
	httpserver.ErrorResponse
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	userID, err := httpserver.UserIDFromRequest(r)
	if err != nil {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return
	}

	result, err := h.checkout.Handle(r.Context(), commands.CheckoutCommand{UserID: userID})
	if err != nil {
		handleError(w, err)
		return
	}

	httpserver.WriteJSON(w, http.StatusCreated, queries.ToOrderDTO(result.Order, result.Titles))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := httpserver.UserIDFromRequest(r)
	if err != nil {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return
	}

	order, err := h.getOrder.Handle(r.Context(), queries.GetOrderQuery{
		UserID:  userID,
		OrderID: chi.URLParam(r, "id"),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httpserver.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) handleListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := httpserver.UserIDFromRequest(r)
	if err != nil {
		httpserver.WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
		return
	}

	offset, err := queryInt(r, "offset")
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid_request", "offset must be a non-negative integer")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
		return
	}

	result, err := h.listOrders.Handle(r.Context(), queries.ListUserOrdersQuery{
		UserID: userID,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httpserver.WriteJSON(w, http.StatusOK, result)
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func handleError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		httpserver.WriteJSON(w, http.StatusConflict, insufficientStockResponse{
			ErrorResponse: httpserver.ErrorResponse{Error: stockErr.Error(), Code: "insufficient_stock"},
			BookID:        stockErr.BookID.String(),
			Title:         stockErr.Title,
			Requested:     stockErr.Requested,
			Available:     stockErr.Available,
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		httpserver.WriteError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		httpserver.WriteError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrBookNotFound):
		httpserver.WriteError(w, http.StatusNotFound, "book_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		httpserver.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		httpserver.WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
