package persistence

import (
	"fmt"
	"time"

	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// orderRow and lineRow are the storage shapes shared by both backends.
type orderRow struct {
	id, userID, status string
	totalAmount        int64
	currency           string
	placedAt           time.Time
	updatedAt          time.Time
}

type lineRow struct {
	lineNumber int64
	bookID     string
	quantity   int64
	unitAmount int64
	currency   string
}

func (r orderRow) toOrder(lines []lineRow) (*domain.Order, error) {
	id, err := types.ParseOrderID(r.id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order id %q: %w", r.id, err)
	}
	userID, err := types.ParseUserID(r.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id %q: %w", r.userID, err)
	}
	total, err := types.NewMoney(r.totalAmount, r.currency)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", r.id, err)
	}

	orderLines := make([]domain.OrderLine, len(lines))
	for i, l := range lines {
		bookID, err := types.ParseBookID(l.bookID)
		if err != nil {
			return nil, fmt.Errorf("failed to parse book id %q: %w", l.bookID, err)
		}
		price, err := types.NewMoney(l.unitAmount, l.currency)
		if err != nil {
			return nil, fmt.Errorf("order %s line %d: %w", r.id, l.lineNumber, err)
		}
		orderLines[i] = domain.OrderLine{
			LineNumber: int(l.lineNumber),
			BookID:     bookID,
			Quantity:   int(l.quantity),
			UnitPrice:  price,
		}
	}

	return domain.Reconstitute(id, userID, orderLines, domain.Status(r.status), total, r.placedAt, r.updatedAt), nil
}
