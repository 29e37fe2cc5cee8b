package queries

import (
	"context"
	"fmt"

	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// MaxPageSize caps an explicit limit.
const MaxPageSize = 100

// OrderListDTO contains the user's order history, newest first.
type OrderListDTO struct {
	Orders     []*OrderDTO `json:"orders"`
	TotalCount int         `json:"total_count"`
	Offset     int         `json:"offset"`
	Limit      int         `json:"limit,omitempty"`
}

// ListUserOrdersQuery retrieves orders for a specific user. A zero Limit
// returns every order.
type ListUserOrdersQuery struct {
	UserID types.UserID
	Offset int
	Limit  int
}

type ListUserOrdersHandler struct {
	repo      domain.OrderRepository
	titles    domain.BookTitles
	readScope transaction.Scope
}

func NewListUserOrdersHandler(repo domain.OrderRepository, titles domain.BookTitles, readScope transaction.Scope) *ListUserOrdersHandler {
	return &ListUserOrdersHandler{repo: repo, titles: titles, readScope: readScope}
}

func (h *ListUserOrdersHandler) Handle(ctx context.Context, query ListUserOrdersQuery) (*OrderListDTO, error) {
	offset := max(query.Offset, 0)
	limit := query.Limit
	if limit < 0 {
		limit = 0
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return transaction.ExecuteWithResult(ctx, h.readScope, func(ctx context.Context) (*OrderListDTO, error) {
		return h.read(ctx, query.UserID, offset, limit)
	})
}

func (h *ListUserOrdersHandler) read(ctx context.Context, userID types.UserID, offset, limit int) (*OrderListDTO, error) {
	orders, total, err := h.repo.FindByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	// Titles are joined at read time, one batch lookup for the whole page.
	titles, err := h.titles.Titles(ctx, bookIDsOf(orders...))
	if err != nil {
		return nil, fmt.Errorf("resolving titles: %w", err)
	}

	dtos := make([]*OrderDTO, len(orders))
	for i, order := range orders {
		dtos[i] = ToOrderDTO(order, titles)
	}

	return &OrderListDTO{
		Orders:     dtos,
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}
