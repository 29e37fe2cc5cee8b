package commands

import (
	"context"

	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// AdjustStockCommand restocks (positive delta) or writes off (negative
// delta) units of a book.
type AdjustStockCommand struct {
	BookID string
	Delta  int
}

type AdjustStockHandler struct {
	repo domain.BookRepository
}

func NewAdjustStockHandler(repo domain.BookRepository) *AdjustStockHandler {
	return &AdjustStockHandler{repo: repo}
}

// Handle applies the adjustment and returns the resulting stock level.
func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (int, error) {
	id, err := types.ParseBookID(cmd.BookID)
	if err != nil {
		return 0, domain.ErrBookNotFound
	}
	if cmd.Delta == 0 {
		return 0, domain.ErrZeroAdjustment
	}
	return h.repo.AdjustStock(ctx, id, cmd.Delta)
}
