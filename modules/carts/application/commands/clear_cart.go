package commands

import (
	"context"
	"fmt"

	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

type ClearCartCommand struct {
	UserID types.UserID
}

// ClearCartHandler empties a cart. Clearing an empty cart is not an error.
type ClearCartHandler struct {
	repo domain.CartRepository
}

func NewClearCartHandler(repo domain.CartRepository) *ClearCartHandler {
	return &ClearCartHandler{repo: repo}
}

func (h *ClearCartHandler) Handle(ctx context.Context, cmd ClearCartCommand) error {
	if err := h.repo.DeleteByUser(ctx, cmd.UserID); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}
