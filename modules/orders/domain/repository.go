package domain

import (
	"context"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	// Save writes the order and all of its lines as one unit.
	Save(ctx context.Context, order *Order) error

	// FindByID returns ErrOrderNotFound if the order doesn't exist.
	FindByID(ctx context.Context, id types.OrderID) (*Order, error)

	// FindByUser returns the user's orders newest first, with their lines,
	// and the total number of orders the user has. A limit of 0 means no limit.
	FindByUser(ctx context.Context, userID types.UserID, offset, limit int) ([]*Order, int, error)
}
