package persistence

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	platformspanner "github.com/rai/clean-bookstore-go/internal/platform/spanner"
	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// CartLines is keyed by (UserID, BookID), which makes a duplicate line for
// the same pair impossible.
var cartLineSpannerColumns = []string{"UserID", "BookID", "CartLineID", "Quantity", "CreatedAt", "UpdatedAt"}

type SpannerRepository struct {
	client *spanner.Client
}

func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

func (r *SpannerRepository) apply(ctx context.Context, mutations ...*spanner.Mutation) error {
	if txn, ok := platformspanner.ReadWriteTxFromContext(ctx); ok {
		return txn.BufferWrite(mutations)
	}
	_, err := r.client.Apply(ctx, mutations)
	return err
}

func (r *SpannerRepository) reader(ctx context.Context) (platformspanner.ReadTransaction, func()) {
	if reader, ok := platformspanner.ReadTransactionFromContext(ctx); ok {
		return reader, func() {}
	}
	single := r.client.Single()
	return single, single.Close
}

func (r *SpannerRepository) FindByUserAndBook(ctx context.Context, userID types.UserID, bookID types.BookID) (*domain.CartLine, error) {
	reader, done := r.reader(ctx)
	defer done()

	row, err := reader.ReadRow(ctx, "CartLines", spanner.Key{userID.String(), bookID.String()}, cartLineSpannerColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to read cart line: %w", err)
	}
	return scanSpannerCartLine(row)
}

func (r *SpannerRepository) Save(ctx context.Context, line *domain.CartLine) error {
	m := spanner.InsertOrUpdate("CartLines", cartLineSpannerColumns, []interface{}{
		line.UserID().String(),
		line.BookID().String(),
		line.ID().String(),
		int64(line.Quantity()),
		line.CreatedAt(),
		line.UpdatedAt(),
	})
	if err := r.apply(ctx, m); err != nil {
		return fmt.Errorf("failed to save cart line: %w", err)
	}
	return nil
}

func (r *SpannerRepository) Delete(ctx context.Context, line *domain.CartLine) error {
	m := spanner.Delete("CartLines", spanner.Key{line.UserID().String(), line.BookID().String()})
	if err := r.apply(ctx, m); err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return nil
}

func (r *SpannerRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*domain.CartLine, error) {
	reader, done := r.reader(ctx)
	defer done()

	stmt := spanner.Statement{
		SQL: `SELECT UserID, BookID, CartLineID, Quantity, CreatedAt, UpdatedAt
		      FROM CartLines
		      WHERE UserID = @userID
		      ORDER BY CreatedAt, CartLineID`,
		Params: map[string]interface{}{"userID": userID.String()},
	}

	iter := reader.Query(ctx, stmt)
	defer iter.Stop()

	var lines []*domain.CartLine
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query cart lines: %w", err)
		}
		line, err := scanSpannerCartLine(row)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *SpannerRepository) DeleteByUser(ctx context.Context, userID types.UserID) error {
	m := spanner.Delete("CartLines", spanner.Key{userID.String()}.AsPrefix())
	if err := r.apply(ctx, m); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func scanSpannerCartLine(row *spanner.Row) (*domain.CartLine, error) {
	var (
		userID, bookID, id   string
		quantity             int64
		createdAt, updatedAt time.Time
	)
	if err := row.Columns(&userID, &bookID, &id, &quantity, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan cart line: %w", err)
	}
	return reconstitute(id, userID, bookID, int(quantity), createdAt, updatedAt)
}
