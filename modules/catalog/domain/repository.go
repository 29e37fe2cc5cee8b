package domain

import (
	"context"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// BookRepository defines the persistence interface for books.
// Every method joins the transaction carried by ctx when there is one.
type BookRepository interface {
	// Create inserts a new book.
	Create(ctx context.Context, book *Book) error

	// UpdateDetails writes every field except stock.
	UpdateDetails(ctx context.Context, book *Book) error

	// FindByID returns ErrBookNotFound if the book doesn't exist.
	FindByID(ctx context.Context, id types.BookID) (*Book, error)

	// FindByIDs returns the books that exist among ids, keyed by id.
	// Missing ids are simply absent from the result.
	FindByIDs(ctx context.Context, ids []types.BookID) (map[types.BookID]*Book, error)

	// AdjustStock atomically adds delta to the stock level and returns the
	// new level. A change that would leave stock negative fails with
	// ErrInsufficientStock and writes nothing.
	AdjustStock(ctx context.Context, id types.BookID, delta int) (int, error)
}
