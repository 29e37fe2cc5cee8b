// Package persistence implements the order repository for SQLite and Spanner.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rai/clean-bookstore-go/internal/platform/sqlite"
	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// SQLiteSchema creates the orders and order_lines tables. Lines go with
// their order.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	status       TEXT NOT NULL,
	total_amount INTEGER NOT NULL CHECK (total_amount >= 0),
	currency     TEXT NOT NULL,
	placed_at    INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_by_user ON orders (user_id, placed_at DESC);
CREATE TABLE IF NOT EXISTS order_lines (
	order_id    TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
	line_number INTEGER NOT NULL,
	book_id     TEXT NOT NULL,
	quantity    INTEGER NOT NULL CHECK (quantity > 0),
	unit_amount INTEGER NOT NULL CHECK (unit_amount >= 0),
	currency    TEXT NOT NULL,
	PRIMARY KEY (order_id, line_number)
);`

const orderColumns = `id, user_id, status, total_amount, currency, placed_at, updated_at`

type SQLiteRepository struct {
	db    *sql.DB
	scope *sqlite.TransactionScope
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, scope: sqlite.NewTransactionScope(db)}
}

// Save persists an order with its lines.
// It uses an existing transaction if available, otherwise creates a new one.
func (r *SQLiteRepository) Save(ctx context.Context, order *domain.Order) error {
	if tx, ok := sqlite.TxFromContext(ctx); ok {
		return r.saveWith(ctx, tx, order)
	}
	return r.scope.Execute(ctx, func(ctx context.Context) error {
		return r.saveWith(ctx, sqlite.ExecutorFrom(ctx, r.db), order)
	})
}

func (r *SQLiteRepository) saveWith(ctx context.Context, exec sqlite.Executor, order *domain.Order) error {
	orderID := order.ID().String()

	if _, err := exec.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		orderID,
		order.UserID().String(),
		order.Status().String(),
		order.Total().Amount(),
		order.Total().Currency(),
		sqlite.Timestamp(order.PlacedAt()),
		sqlite.Timestamp(order.UpdatedAt()),
	); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	// Lines never change after placement; replaying them is a no-op.
	for _, line := range order.Lines() {
		if _, err := exec.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, line_number, book_id, quantity, unit_amount, currency)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (order_id, line_number) DO NOTHING`,
			orderID,
			line.LineNumber,
			line.BookID.String(),
			line.Quantity,
			line.UnitPrice.Amount(),
			line.UnitPrice.Currency(),
		); err != nil {
			return fmt.Errorf("failed to save order line %d: %w", line.LineNumber, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id types.OrderID) (*domain.Order, error) {
	exec := sqlite.ExecutorFrom(ctx, r.db)

	row, err := scanOrderRow(exec.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read order: %w", err)
	}

	lines, err := r.readLines(ctx, exec, []string{row.id})
	if err != nil {
		return nil, err
	}
	return row.toOrder(lines[row.id])
}

func (r *SQLiteRepository) FindByUser(ctx context.Context, userID types.UserID, offset, limit int) ([]*domain.Order, int, error) {
	exec := sqlite.ExecutorFrom(ctx, r.db)

	var total int
	if err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID.String()).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	// SQLite reads a negative LIMIT as no limit.
	sqlLimit := limit
	if sqlLimit <= 0 {
		sqlLimit = -1
	}
	rows, err := exec.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE user_id = ?
		 ORDER BY placed_at DESC, rowid DESC
		 LIMIT ? OFFSET ?`,
		userID.String(), sqlLimit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var headers []orderRow
	for rows.Next() {
		row, err := scanOrderRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		headers = append(headers, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	if len(headers) == 0 {
		return nil, total, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.id
	}
	lines, err := r.readLines(ctx, exec, ids)
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*domain.Order, len(headers))
	for i, h := range headers {
		order, err := h.toOrder(lines[h.id])
		if err != nil {
			return nil, 0, err
		}
		orders[i] = order
	}
	return orders, total, nil
}

// readLines loads the lines of every given order in one query, keyed by
// order id and sorted by line number.
func (r *SQLiteRepository) readLines(ctx context.Context, exec sqlite.Executor, orderIDs []string) (map[string][]lineRow, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderIDs)), ",")
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		args[i] = id
	}

	rows, err := exec.QueryContext(ctx,
		`SELECT order_id, line_number, book_id, quantity, unit_amount, currency
		 FROM order_lines
		 WHERE order_id IN (`+placeholders+`)
		 ORDER BY order_id, line_number`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[string][]lineRow, len(orderIDs))
	for rows.Next() {
		var orderID string
		var l lineRow
		if err := rows.Scan(&orderID, &l.lineNumber, &l.bookID, &l.quantity, &l.unitAmount, &l.currency); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		byOrder[orderID] = append(byOrder[orderID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	return byOrder, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrderRow(s scanner) (orderRow, error) {
	var (
		row                 orderRow
		placedAt, updatedAt int64
	)
	if err := s.Scan(&row.id, &row.userID, &row.status, &row.totalAmount, &row.currency, &placedAt, &updatedAt); err != nil {
		return orderRow{}, err
	}
	row.placedAt = sqlite.FromTimestamp(placedAt)
	row.updatedAt = sqlite.FromTimestamp(updatedAt)
	return row, nil
}
