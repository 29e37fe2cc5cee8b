// Package commands contains write use cases for the catalog module.
package commands

import (
	"context"
	"fmt"

	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// AddBookCommand registers a new book. Price is a decimal string such as "49.90".
type AddBookCommand struct {
	Title        string
	Author       string
	Description  string
	Category     string
	Price        string
	Currency     string
	InitialStock int
}

type AddBookHandler struct {
	repo domain.BookRepository
}

func NewAddBookHandler(repo domain.BookRepository) *AddBookHandler {
	return &AddBookHandler{repo: repo}
}

// Handle creates the book and returns its id.
func (h *AddBookHandler) Handle(ctx context.Context, cmd AddBookCommand) (string, error) {
	price, err := types.ParseMoney(cmd.Price, cmd.Currency)
	if err != nil {
		return "", fmt.Errorf("invalid price: %w", err)
	}

	book, err := domain.NewBook(cmd.Title, cmd.Author, cmd.Description, cmd.Category, price, cmd.InitialStock)
	if err != nil {
		return "", err
	}

	if err := h.repo.Create(ctx, book); err != nil {
		return "", fmt.Errorf("saving book: %w", err)
	}
	return book.ID().String(), nil
}
