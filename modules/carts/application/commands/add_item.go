// Package commands contains write use cases for the carts module.
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// AddItemCommand puts one more copy of a book in the user's cart.
type AddItemCommand struct {
	UserID types.UserID
	BookID string
}

// AddItemResult is the state of the line after the add.
type AddItemResult struct {
	LineID   string
	Quantity int
}

type AddItemHandler struct {
	repo             domain.CartRepository
	books            domain.BookLookup
	txScope          transaction.Scope
	rejectOutOfStock bool
}

// NewAddItemHandler creates the handler. With rejectOutOfStock set, books
// whose stock is already zero cannot be added; otherwise stock is only
// enforced at checkout.
func NewAddItemHandler(repo domain.CartRepository, books domain.BookLookup, txScope transaction.Scope, rejectOutOfStock bool) *AddItemHandler {
	return &AddItemHandler{
		repo:             repo,
		books:            books,
		txScope:          txScope,
		rejectOutOfStock: rejectOutOfStock,
	}
}

// Handle runs the lookup and the upsert in one transaction so that two
// concurrent adds for the same book end up as quantity 2, not two lines.
func (h *AddItemHandler) Handle(ctx context.Context, cmd AddItemCommand) (AddItemResult, error) {
	bookID, err := types.ParseBookID(cmd.BookID)
	if err != nil {
		return AddItemResult{}, domain.ErrBookNotFound
	}

	return transaction.ExecuteWithResult(ctx, h.txScope, func(ctx context.Context) (AddItemResult, error) {
		stock, err := h.books.StockOf(ctx, bookID)
		if err != nil {
			return AddItemResult{}, err
		}
		if h.rejectOutOfStock && stock <= 0 {
			return AddItemResult{}, domain.ErrOutOfStock
		}

		line, err := h.repo.FindByUserAndBook(ctx, cmd.UserID, bookID)
		switch {
		case errors.Is(err, domain.ErrCartLineNotFound):
			line = domain.NewCartLine(cmd.UserID, bookID)
		case err != nil:
			return AddItemResult{}, fmt.Errorf("loading cart line: %w", err)
		default:
			line.Increment()
		}

		if err := h.repo.Save(ctx, line); err != nil {
			return AddItemResult{}, fmt.Errorf("saving cart line: %w", err)
		}
		return AddItemResult{LineID: line.ID().String(), Quantity: line.Quantity()}, nil
	})
}
