// Package persistence implements the cart repository for SQLite and Spanner.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rai/clean-bookstore-go/internal/platform/sqlite"
	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// SQLiteSchema creates the cart_lines table. The unique index is the
// storage-level guarantee of one line per (user, book).
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS cart_lines (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	book_id    TEXT NOT NULL,
	quantity   INTEGER NOT NULL CHECK (quantity > 0),
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	UNIQUE (user_id, book_id)
);
CREATE INDEX IF NOT EXISTS cart_lines_by_user ON cart_lines (user_id, created_at);`

const cartLineColumns = `id, user_id, book_id, quantity, created_at, updated_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) FindByUserAndBook(ctx context.Context, userID types.UserID, bookID types.BookID) (*domain.CartLine, error) {
	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+cartLineColumns+` FROM cart_lines WHERE user_id = ? AND book_id = ?`,
		userID.String(), bookID.String())

	line, err := scanCartLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCartLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart line: %w", err)
	}
	return line, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, line *domain.CartLine) error {
	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`INSERT INTO cart_lines (`+cartLineColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET quantity = excluded.quantity, updated_at = excluded.updated_at`,
		line.ID().String(),
		line.UserID().String(),
		line.BookID().String(),
		line.Quantity(),
		sqlite.Timestamp(line.CreatedAt()),
		sqlite.Timestamp(line.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save cart line: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, line *domain.CartLine) error {
	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM cart_lines WHERE id = ?`, line.ID().String()); err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*domain.CartLine, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx,
		`SELECT `+cartLineColumns+` FROM cart_lines WHERE user_id = ? ORDER BY created_at, rowid`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []*domain.CartLine
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	return lines, nil
}

func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID types.UserID) error {
	if _, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`DELETE FROM cart_lines WHERE user_id = ?`, userID.String()); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCartLine(s scanner) (*domain.CartLine, error) {
	var (
		id, userID, bookID   string
		quantity             int
		createdAt, updatedAt int64
	)
	if err := s.Scan(&id, &userID, &bookID, &quantity, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return reconstitute(id, userID, bookID, quantity, sqlite.FromTimestamp(createdAt), sqlite.FromTimestamp(updatedAt))
}
