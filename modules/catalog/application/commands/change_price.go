package commands

import (
	"context"
	"fmt"

	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

type ChangePriceCommand struct {
	BookID   string
	Price    string
	Currency string
}

// ChangePriceHandler updates a book's price. Only checkouts that start
// after the change see the new price.
type ChangePriceHandler struct {
	repo    domain.BookRepository
	txScope transaction.Scope
}

func NewChangePriceHandler(repo domain.BookRepository, txScope transaction.Scope) *ChangePriceHandler {
	return &ChangePriceHandler{repo: repo, txScope: txScope}
}

func (h *ChangePriceHandler) Handle(ctx context.Context, cmd ChangePriceCommand) error {
	id, err := types.ParseBookID(cmd.BookID)
	if err != nil {
		return domain.ErrBookNotFound
	}
	price, err := types.ParseMoney(cmd.Price, cmd.Currency)
	if err != nil {
		return fmt.Errorf("invalid price: %w", err)
	}

	return h.txScope.Execute(ctx, func(ctx context.Context) error {
		book, err := h.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := book.ChangePrice(price); err != nil {
			return err
		}
		if err := h.repo.UpdateDetails(ctx, book); err != nil {
			return fmt.Errorf("saving book: %w", err)
		}
		return nil
	})
}
