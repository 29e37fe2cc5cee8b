package domain

import (
	"context"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// CartRepository defines the persistence interface for cart lines.
// At most one line exists per (user, book).
type CartRepository interface {
	// FindByUserAndBook returns ErrCartLineNotFound if there is no line.
	FindByUserAndBook(ctx context.Context, userID types.UserID, bookID types.BookID) (*CartLine, error)

	// Save inserts or updates a line.
	Save(ctx context.Context, line *CartLine) error

	// Delete removes a single line.
	Delete(ctx context.Context, line *CartLine) error

	// ListByUser returns the user's lines in creation order.
	ListByUser(ctx context.Context, userID types.UserID) ([]*CartLine, error)

	// DeleteByUser removes every line of the user.
	DeleteByUser(ctx context.Context, userID types.UserID) error
}

// BookLookup reports the current stock of a book.
// Returns ErrBookNotFound if the book doesn't exist.
type BookLookup interface {
	StockOf(ctx context.Context, bookID types.BookID) (int, error)
}
