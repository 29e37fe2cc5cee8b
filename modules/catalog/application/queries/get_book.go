// Package queries contains read use cases for the catalog module.
package queries

import (
	"context"
	"time"

	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

type GetBookQuery struct {
	BookID string
}

// BookDTO is the read model of a book. Price is rendered with exactly two
// decimals.
type BookDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       string    `json:"price"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GetBookHandler struct {
	repo domain.BookRepository
}

func NewGetBookHandler(repo domain.BookRepository) *GetBookHandler {
	return &GetBookHandler{repo: repo}
}

func (h *GetBookHandler) Handle(ctx context.Context, query GetBookQuery) (*BookDTO, error) {
	id, err := types.ParseBookID(query.BookID)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	book, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(book), nil
}

func toDTO(b *domain.Book) *BookDTO {
	return &BookDTO{
		ID:          b.ID().String(),
		Title:       b.Title(),
		Author:      b.Author(),
		Description: b.Description(),
		Category:    b.Category(),
		Price:       b.Price().Decimal(),
		Currency:    b.Price().Currency(),
		Stock:       b.Stock(),
		CreatedAt:   b.CreatedAt(),
		UpdatedAt:   b.UpdatedAt(),
	}
}
