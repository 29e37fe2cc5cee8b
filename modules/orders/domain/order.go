// Package domain contains business entities and rules for orders.
package domain

import (
	"fmt"
	"time"

	shareddomain "github.com/rai/clean-bookstore-go/modules/shared/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// Order is the aggregate root for the order bounded context.
// Its lines and total are fixed when the order is placed.
type Order struct {
	shareddomain.AggregateRoot

	id        types.OrderID
	userID    types.UserID
	lines     []OrderLine
	status    Status
	total     types.Money
	placedAt  time.Time
	updatedAt time.Time
}

// OrderLine is one purchased book. UnitPrice is the catalog price at the
// moment of checkout and never follows later price changes.
type OrderLine struct {
	LineNumber int
	BookID     types.BookID
	Quantity   int
	UnitPrice  types.Money
}

// NewOrderLine validates a line. Line numbers start at 1.
func NewOrderLine(lineNumber int, bookID types.BookID, quantity int, unitPrice types.Money) (OrderLine, error) {
	if quantity <= 0 {
		return OrderLine{}, ErrInvalidQuantity
	}
	return OrderLine{
		LineNumber: lineNumber,
		BookID:     bookID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	}, nil
}

func (l OrderLine) Subtotal() (types.Money, error) {
	return l.UnitPrice.Multiply(int64(l.Quantity))
}

// PlaceOrder creates a PLACED order and computes its total once from the
// lines. Adds OrderPlacedEvent to be dispatched after the order is committed.
func PlaceOrder(userID types.UserID, lines []OrderLine) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	total, err := types.NewMoney(0, lines[0].UnitPrice.Currency())
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		subtotal, err := line.Subtotal()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line.LineNumber, err)
		}
		if total, err = total.Add(subtotal); err != nil {
			return nil, fmt.Errorf("line %d: %w", line.LineNumber, err)
		}
	}

	now := time.Now().UTC()
	o := &Order{
		id:        types.NewOrderID(),
		userID:    userID,
		lines:     append([]OrderLine(nil), lines...),
		status:    StatusPlaced,
		total:     total,
		placedAt:  now,
		updatedAt: now,
	}
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// Reconstitute rebuilds an order from persistence.
func Reconstitute(
	id types.OrderID,
	userID types.UserID,
	lines []OrderLine,
	status Status,
	total types.Money,
	placedAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:        id,
		userID:    userID,
		lines:     lines,
		status:    status,
		total:     total,
		placedAt:  placedAt,
		updatedAt: updatedAt,
	}
}

// Getters

func (o *Order) ID() types.OrderID    { return o.id }
func (o *Order) UserID() types.UserID { return o.userID }
func (o *Order) Lines() []OrderLine   { return o.lines }
func (o *Order) Status() Status       { return o.status }
func (o *Order) Total() types.Money   { return o.total }
func (o *Order) PlacedAt() time.Time  { return o.placedAt }
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// Units returns the number of copies across all lines.
func (o *Order) Units() int {
	n := 0
	for _, line := range o.lines {
		n += line.Quantity
	}
	return n
}

// Status transitions

func (o *Order) Pay() error    { return o.transitionTo(StatusPaid) }
func (o *Order) Ship() error   { return o.transitionTo(StatusShipped) }
func (o *Order) Cancel() error { return o.transitionTo(StatusCancelled) }

func (o *Order) transitionTo(next Status) error {
	if !o.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.status, next)
	}
	o.status = next
	o.updatedAt = time.Now().UTC()
	return nil
}
