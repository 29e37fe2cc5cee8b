package app

import (
	"context"
	"errors"

	cartdomain "github.com/rai/clean-bookstore-go/modules/carts/domain"
	catalogdomain "github.com/rai/clean-bookstore-go/modules/catalog/domain"
	orderdomain "github.com/rai/clean-bookstore-go/modules/orders/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// Adapters let one module use another's repository through the port the
// consuming module declares. Each one translates the provider's errors
// into the consumer's sentinels.

// cartSource implements orders' CartSource over the carts repository.
type cartSource struct {
	carts cartdomain.CartRepository
}

func (a cartSource) Items(ctx context.Context, userID types.UserID) ([]orderdomain.CartItem, error) {
	lines, err := a.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]orderdomain.CartItem, len(lines))
	for i, line := range lines {
		items[i] = orderdomain.CartItem{BookID: line.BookID(), Quantity: line.Quantity()}
	}
	return items, nil
}

func (a cartSource) Clear(ctx context.Context, userID types.UserID) error {
	return a.carts.DeleteByUser(ctx, userID)
}

// inventory implements orders' Inventory over the catalog ledger.
type inventory struct {
	books catalogdomain.BookRepository
}

func (a inventory) Lookup(ctx context.Context, bookID types.BookID) (orderdomain.StockedBook, error) {
	book, err := a.books.FindByID(ctx, bookID)
	if err != nil {
		return orderdomain.StockedBook{}, toOrderError(err)
	}
	return orderdomain.StockedBook{
		BookID: book.ID(),
		Title:  book.Title(),
		Price:  book.Price(),
		Stock:  book.Stock(),
	}, nil
}

func (a inventory) Decrement(ctx context.Context, bookID types.BookID, qty int) error {
	_, err := a.books.AdjustStock(ctx, bookID, -qty)
	return toOrderError(err)
}

func toOrderError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalogdomain.ErrBookNotFound):
		return orderdomain.ErrBookNotFound
	case errors.Is(err, catalogdomain.ErrInsufficientStock):
		return orderdomain.ErrInsufficientStock
	default:
		return err
	}
}

// bookTitles implements orders' BookTitles with one batch read.
type bookTitles struct {
	books catalogdomain.BookRepository
}

func (a bookTitles) Titles(ctx context.Context, ids []types.BookID) (map[types.BookID]string, error) {
	titles := make(map[types.BookID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	books, err := a.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, book := range books {
		titles[id] = book.Title()
	}
	return titles, nil
}

// cartBooks implements carts' BookLookup over the catalog.
type cartBooks struct {
	books catalogdomain.BookRepository
}

func (a cartBooks) StockOf(ctx context.Context, bookID types.BookID) (int, error) {
	book, err := a.books.FindByID(ctx, bookID)
	if errors.Is(err, catalogdomain.ErrBookNotFound) {
		return 0, cartdomain.ErrBookNotFound
	}
	if err != nil {
		return 0, err
	}
	return book.Stock(), nil
}

// Compile-time interface checks.
var (
	_ orderdomain.CartSource = cartSource{}
	_ orderdomain.Inventory  = inventory{}
	_ orderdomain.BookTitles = bookTitles{}
	_ cartdomain.BookLookup  = cartBooks{}
)
