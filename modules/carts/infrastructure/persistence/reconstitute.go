package persistence

import (
	"fmt"
	"time"

	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// reconstitute parses the stored identifiers, which both backends keep as strings.
func reconstitute(id, userID, bookID string, quantity int, createdAt, updatedAt time.Time) (*domain.CartLine, error) {
	lineID, err := types.ParseCartLineID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cart line id %q: %w", id, err)
	}
	user, err := types.ParseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id %q: %w", userID, err)
	}
	book, err := types.ParseBookID(bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse book id %q: %w", bookID, err)
	}
	return domain.Reconstitute(lineID, user, book, quantity, createdAt, updatedAt), nil
}
