// Package queries contains read use cases for the carts module.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

type ListItemsQuery struct {
	UserID types.UserID
}

type CartItemDTO struct {
	ID       string    `json:"id"`
	BookID   string    `json:"book_id"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

type ListItemsResult struct {
	Items      []CartItemDTO `json:"items"`
	TotalUnits int           `json:"total_units"`
}

type ListItemsHandler struct {
	repo domain.CartRepository
}

func NewListItemsHandler(repo domain.CartRepository) *ListItemsHandler {
	return &ListItemsHandler{repo: repo}
}

// Handle lists the cart in the order lines were first added.
func (h *ListItemsHandler) Handle(ctx context.Context, query ListItemsQuery) (*ListItemsResult, error) {
	lines, err := h.repo.ListByUser(ctx, query.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing cart: %w", err)
	}

	result := &ListItemsResult{Items: make([]CartItemDTO, 0, len(lines))}
	for _, line := range lines {
		result.Items = append(result.Items, CartItemDTO{
			ID:       line.ID().String(),
			BookID:   line.BookID().String(),
			Quantity: line.Quantity(),
			AddedAt:  line.CreatedAt(),
		})
		result.TotalUnits += line.Quantity()
	}
	return result, nil
}
