package domain

import (
	"context"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// Ports to the catalog and carts modules. They are implemented by adapters
// in the composition root and join the transaction carried by ctx.

// CartItem is one line of the shopper's cart as seen by checkout.
type CartItem struct {
	BookID   types.BookID
	Quantity int
}

// CartSource reads and empties a user's cart.
type CartSource interface {
	// Items returns the cart lines in the order they were first added.
	Items(ctx context.Context, userID types.UserID) ([]CartItem, error)
	Clear(ctx context.Context, userID types.UserID) error
}

// StockedBook is a catalog entry as seen by checkout.
type StockedBook struct {
	BookID types.BookID
	Title  string
	Price  types.Money
	Stock  int
}

// Inventory reads books and takes units out of stock.
type Inventory interface {
	// Lookup returns ErrBookNotFound if the book doesn't exist.
	Lookup(ctx context.Context, bookID types.BookID) (StockedBook, error)

	// Decrement removes qty units atomically. It returns
	// ErrInsufficientStock, and changes nothing, if fewer are on hand.
	Decrement(ctx context.Context, bookID types.BookID, qty int) error
}

// BookTitles resolves titles for order history. Unknown ids are omitted.
type BookTitles interface {
	Titles(ctx context.Context, ids []types.BookID) (map[types.BookID]string, error)
}
