package persistence

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	platformspanner "github.com/rai/clean-bookstore-go/internal/platform/spanner"
	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

const (
	ordersTable     = "Orders"
	orderLinesTable = "OrderLines"
)

var (
	spannerOrderColumns = []string{"OrderID", "UserID", "Status", "TotalAmount", "Currency", "PlacedAt", "UpdatedAt"}
	spannerLineColumns  = []string{"OrderID", "LineNumber", "BookID", "Quantity", "UnitAmount", "Currency"}
)

// SpannerRepository keeps orders in Orders with their lines interleaved in
// OrderLines.
type SpannerRepository struct {
	client *spanner.Client
}

func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

// Save buffers the order into the read-write transaction in ctx. Outside a
// transaction it commits the mutations on its own.
func (r *SpannerRepository) Save(ctx context.Context, order *domain.Order) error {
	ms := orderMutations(order)
	if tx, ok := platformspanner.ReadWriteTxFromContext(ctx); ok {
		if err := tx.BufferWrite(ms); err != nil {
			return fmt.Errorf("buffer order %s: %w", order.ID(), err)
		}
		return nil
	}
	if _, err := r.client.Apply(ctx, ms); err != nil {
		return fmt.Errorf("apply order %s: %w", order.ID(), err)
	}
	return nil
}

func orderMutations(order *domain.Order) []*spanner.Mutation {
	id := order.ID().String()
	ms := make([]*spanner.Mutation, 0, 1+len(order.Lines()))
	ms = append(ms, spanner.InsertOrUpdate(ordersTable, spannerOrderColumns, []any{
		id,
		order.UserID().String(),
		order.Status().String(),
		order.Total().Amount(),
		order.Total().Currency(),
		order.PlacedAt(),
		order.UpdatedAt(),
	}))
	for _, l := range order.Lines() {
		ms = append(ms, spanner.InsertOrUpdate(orderLinesTable, spannerLineColumns, []any{
			id,
			int64(l.LineNumber),
			l.BookID.String(),
			int64(l.Quantity),
			l.UnitPrice.Amount(),
			l.UnitPrice.Currency(),
		}))
	}
	return ms
}

// reader returns the transaction in ctx, or a fresh snapshot so that the
// header and line reads agree. release must be called.
func (r *SpannerRepository) reader(ctx context.Context) (reader platformspanner.ReadTransaction, release func()) {
	if tx, ok := platformspanner.ReadTransactionFromContext(ctx); ok {
		return tx, func() {}
	}
	ro := r.client.ReadOnlyTransaction()
	return ro, ro.Close
}

func (r *SpannerRepository) FindByID(ctx context.Context, id types.OrderID) (*domain.Order, error) {
	rd, release := r.reader(ctx)
	defer release()

	row, err := rd.ReadRow(ctx, ordersTable, spanner.Key{id.String()}, spannerOrderColumns)
	if spanner.ErrCode(err) == codes.NotFound {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read order %s: %w", id, err)
	}
	header, err := scanSpannerOrderRow(row)
	if err != nil {
		return nil, err
	}

	lines, err := readSpannerLines(ctx, rd, header.id)
	if err != nil {
		return nil, err
	}
	return header.toOrder(lines[header.id])
}

func (r *SpannerRepository) FindByUser(ctx context.Context, userID types.UserID, offset, limit int) ([]*domain.Order, int, error) {
	rd, release := r.reader(ctx)
	defer release()

	total, err := countSpannerOrders(ctx, rd, userID)
	if err != nil {
		return nil, 0, err
	}
	// Spanner has no "no limit"; a page never holds more than total rows.
	if limit <= 0 {
		limit = int(total)
	}

	stmt := spanner.Statement{
		SQL: `SELECT OrderID, UserID, Status, TotalAmount, Currency, PlacedAt, UpdatedAt
		      FROM Orders@{FORCE_INDEX=OrdersByUserID}
		      WHERE UserID = @userID
		      ORDER BY PlacedAt DESC, OrderID DESC
		      LIMIT @limit OFFSET @offset`,
		Params: map[string]any{
			"userID": userID.String(),
			"limit":  int64(limit),
			"offset": int64(offset),
		},
	}
	var headers []orderRow
	err = rd.Query(ctx, stmt).Do(func(row *spanner.Row) error {
		h, err := scanSpannerOrderRow(row)
		if err != nil {
			return err
		}
		headers = append(headers, h)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders of %s: %w", userID, err)
	}
	if len(headers) == 0 {
		return nil, int(total), nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.id
	}
	lines, err := readSpannerLines(ctx, rd, ids...)
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, len(headers))
	for i, h := range headers {
		if orders[i], err = h.toOrder(lines[h.id]); err != nil {
			return nil, 0, err
		}
	}
	return orders, int(total), nil
}

func countSpannerOrders(ctx context.Context, rd platformspanner.ReadTransaction, userID types.UserID) (int64, error) {
	iter := rd.Query(ctx, spanner.Statement{
		SQL:    `SELECT COUNT(*) FROM Orders@{FORCE_INDEX=OrdersByUserID} WHERE UserID = @userID`,
		Params: map[string]any{"userID": userID.String()},
	})
	defer iter.Stop()

	row, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count orders of %s: %w", userID, err)
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, fmt.Errorf("scan order count: %w", err)
	}
	return n, nil
}

// readSpannerLines fetches the lines of every given order in one read, keyed
// by order ID. Interleaving returns each order's lines in LineNumber order.
func readSpannerLines(ctx context.Context, rd platformspanner.ReadTransaction, orderIDs ...string) (map[string][]lineRow, error) {
	keys := make([]spanner.KeySet, len(orderIDs))
	for i, id := range orderIDs {
		keys[i] = spanner.Key{id}.AsPrefix()
	}

	out := make(map[string][]lineRow, len(orderIDs))
	err := rd.Read(ctx, orderLinesTable, spanner.KeySets(keys...), spannerLineColumns).Do(func(row *spanner.Row) error {
		var (
			orderID string
			l       lineRow
		)
		if err := row.Columns(&orderID, &l.lineNumber, &l.bookID, &l.quantity, &l.unitAmount, &l.currency); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		out[orderID] = append(out[orderID], l)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read order lines: %w", err)
	}
	return out, nil
}

func scanSpannerOrderRow(row *spanner.Row) (orderRow, error) {
	var h orderRow
	if err := row.Columns(&h.id, &h.userID, &h.status, &h.totalAmount, &h.currency, &h.placedAt, &h.updatedAt); err != nil {
		return orderRow{}, fmt.Errorf("scan order: %w", err)
	}
	return h, nil
}
