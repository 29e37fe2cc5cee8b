package commands

import (
	"context"
	"fmt"

	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// RemoveItemCommand takes one copy of a book out of the user's cart.
type RemoveItemCommand struct {
	UserID types.UserID
	BookID string
}

type RemoveItemHandler struct {
	repo    domain.CartRepository
	txScope transaction.Scope
}

func NewRemoveItemHandler(repo domain.CartRepository, txScope transaction.Scope) *RemoveItemHandler {
	return &RemoveItemHandler{repo: repo, txScope: txScope}
}

// Handle returns the remaining quantity; a line that reaches zero is deleted.
func (h *RemoveItemHandler) Handle(ctx context.Context, cmd RemoveItemCommand) (int, error) {
	bookID, err := types.ParseBookID(cmd.BookID)
	if err != nil {
		return 0, domain.ErrCartLineNotFound
	}

	return transaction.ExecuteWithResult(ctx, h.txScope, func(ctx context.Context) (int, error) {
		line, err := h.repo.FindByUserAndBook(ctx, cmd.UserID, bookID)
		if err != nil {
			return 0, err
		}

		if line.Decrement() {
			if err := h.repo.Delete(ctx, line); err != nil {
				return 0, fmt.Errorf("deleting cart line: %w", err)
			}
			return 0, nil
		}

		if err := h.repo.Save(ctx, line); err != nil {
			return 0, fmt.Errorf("saving cart line: %w", err)
		}
		return line.Quantity(), nil
	})
}
