// Package domain contains the shopping cart model: one line per
// (user, book) pair with a positive quantity.
package domain

import (
	"time"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// CartLine records how many copies of a book a user intends to buy.
// Lines are listed in the order they were first created.
type CartLine struct {
	id        types.CartLineID
	userID    types.UserID
	bookID    types.BookID
	quantity  int
	createdAt time.Time
	updatedAt time.Time
}

// NewCartLine starts a line with a single copy.
func NewCartLine(userID types.UserID, bookID types.BookID) *CartLine {
	now := time.Now().UTC()
	return &CartLine{
		id:        types.NewCartLineID(),
		userID:    userID,
		bookID:    bookID,
		quantity:  1,
		createdAt: now,
		updatedAt: now,
	}
}

// Reconstitute recreates a CartLine from persistence.
func Reconstitute(id types.CartLineID, userID types.UserID, bookID types.BookID, quantity int, createdAt, updatedAt time.Time) *CartLine {
	return &CartLine{
		id:        id,
		userID:    userID,
		bookID:    bookID,
		quantity:  quantity,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (l *CartLine) ID() types.CartLineID { return l.id }
func (l *CartLine) UserID() types.UserID { return l.userID }
func (l *CartLine) BookID() types.BookID { return l.bookID }
func (l *CartLine) Quantity() int        { return l.quantity }
func (l *CartLine) CreatedAt() time.Time { return l.createdAt }
func (l *CartLine) UpdatedAt() time.Time { return l.updatedAt }

// Increment adds one copy.
func (l *CartLine) Increment() {
	l.quantity++
	l.updatedAt = time.Now().UTC()
}

// Decrement removes one copy and reports whether the line is now empty and
// should be deleted rather than saved.
func (l *CartLine) Decrement() (empty bool) {
	l.quantity--
	l.updatedAt = time.Now().UTC()
	return l.quantity <= 0
}
