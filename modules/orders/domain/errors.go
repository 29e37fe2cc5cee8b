package domain

import (
	"errors"
	"fmt"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrBookNotFound            = errors.New("book not found")
	ErrStorageFailure          = errors.New("storage failure")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrNoLines                 = errors.New("order must have at least one line")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// InsufficientStockError names the first cart line whose book could not
// cover the requested quantity. It matches ErrInsufficientStock.
type InsufficientStockError struct {
	BookID    types.BookID
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Title, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
