// Package queries contains read use cases for the orders module.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// OrderDTO is a read model for order data. Amounts are decimal strings
// with exactly two fractional digits.
type OrderDTO struct {
	ID       string         `json:"id"`
	UserID   string         `json:"user_id"`
	Status   string         `json:"status"`
	Total    MoneyDTO       `json:"total"`
	Lines    []OrderLineDTO `json:"lines"`
	PlacedAt time.Time      `json:"placed_at"`
}

type OrderLineDTO struct {
	LineNumber int      `json:"line_number"`
	BookID     string   `json:"book_id"`
	Title      string   `json:"title"`
	Quantity   int      `json:"quantity"`
	UnitPrice  MoneyDTO `json:"unit_price"`
	Subtotal   MoneyDTO `json:"subtotal"`
}

type MoneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyDTO(m types.Money) MoneyDTO {
	return MoneyDTO{Amount: m.Decimal(), Currency: m.Currency()}
}

// ToOrderDTO renders an order, naming each line by its title in titles.
func ToOrderDTO(order *domain.Order, titles map[types.BookID]string) *OrderDTO {
	lines := make([]OrderLineDTO, len(order.Lines()))
	for i, line := range order.Lines() {
		// Subtotals were checked when the order was placed.
		subtotal, _ := line.Subtotal()
		lines[i] = OrderLineDTO{
			LineNumber: line.LineNumber,
			BookID:     line.BookID.String(),
			Title:      titles[line.BookID],
			Quantity:   line.Quantity,
			UnitPrice:  toMoneyDTO(line.UnitPrice),
			Subtotal:   toMoneyDTO(subtotal),
		}
	}

	return &OrderDTO{
		ID:       order.ID().String(),
		UserID:   order.UserID().String(),
		Status:   order.Status().String(),
		Total:    toMoneyDTO(order.Total()),
		Lines:    lines,
		PlacedAt: order.PlacedAt(),
	}
}

// GetOrderQuery retrieves one of the caller's orders.
type GetOrderQuery struct {
	UserID  types.UserID
	OrderID string
}

type GetOrderHandler struct {
	repo      domain.OrderRepository
	titles    domain.BookTitles
	readScope transaction.Scope
}

// NewGetOrderHandler creates the handler. The order and its titles are read
// within readScope so they come from one snapshot.
func NewGetOrderHandler(repo domain.OrderRepository, titles domain.BookTitles, readScope transaction.Scope) *GetOrderHandler {
	return &GetOrderHandler{repo: repo, titles: titles, readScope: readScope}
}

// Handle reports another user's order as not found.
func (h *GetOrderHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderDTO, error) {
	orderID, err := types.ParseOrderID(query.OrderID)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	return transaction.ExecuteWithResult(ctx, h.readScope, func(ctx context.Context) (*OrderDTO, error) {
		return h.read(ctx, query.UserID, orderID)
	})
}

func (h *GetOrderHandler) read(ctx context.Context, userID types.UserID, orderID types.OrderID) (*OrderDTO, error) {
	order, err := h.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID() != userID {
		return nil, domain.ErrOrderNotFound
	}

	titles, err := h.titles.Titles(ctx, bookIDsOf(order))
	if err != nil {
		return nil, fmt.Errorf("resolving titles: %w", err)
	}
	return ToOrderDTO(order, titles), nil
}

func bookIDsOf(orders ...*domain.Order) []types.BookID {
	seen := make(map[types.BookID]struct{})
	var ids []types.BookID
	for _, order := range orders {
		for _, line := range order.Lines() {
			if _, ok := seen[line.BookID]; ok {
				continue
			}
			seen[line.BookID] = struct{}{}
			ids = append(ids, line.BookID)
		}
	}
	return ids
}
