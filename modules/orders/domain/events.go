package domain

import (
	"github.com/rai/clean-bookstore-go/modules/shared/events"
	"github.com/rai/clean-bookstore-go/modules/shared/events/contracts"
)

const OrderPlacedEventType = contracts.OrderPlacedEventType

func NewOrderPlacedEvent(order *Order) contracts.OrderPlacedEvent {
	lines := make([]contracts.OrderPlacedLine, len(order.Lines()))
	for i, line := range order.Lines() {
		lines[i] = contracts.OrderPlacedLine{
			BookID:    line.BookID.String(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.Amount(),
		}
	}
	return contracts.OrderPlacedEvent{
		BaseEvent:   events.NewBaseEvent(OrderPlacedEventType, order.ID().String()),
		OrderID:     order.ID().String(),
		UserID:      order.UserID().String(),
		TotalAmount: order.Total().Amount(),
		Currency:    order.Total().Currency(),
		Lines:       lines,
	}
}
