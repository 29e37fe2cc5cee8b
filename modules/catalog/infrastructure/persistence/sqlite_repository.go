// Package persistence implements the book repository for SQLite and Spanner.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rai/clean-bookstore-go/internal/platform/sqlite"
	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// SQLiteSchema creates the books table.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS books (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	author         TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	price_amount   INTEGER NOT NULL CHECK (price_amount >= 0),
	price_currency TEXT NOT NULL,
	stock          INTEGER NOT NULL CHECK (stock >= 0),
	created_at     INTEGER NOT NULL,
	updated_at     INTEGER NOT NULL
);`

const bookColumns = `id, title, author, description, category, price_amount, price_currency, stock, created_at, updated_at`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, book *domain.Book) error {
	_, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID().String(),
		book.Title(),
		book.Author(),
		book.Description(),
		book.Category(),
		book.Price().Amount(),
		book.Price().Currency(),
		book.Stock(),
		sqlite.Timestamp(book.CreatedAt()),
		sqlite.Timestamp(book.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateDetails(ctx context.Context, book *domain.Book) error {
	res, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx,
		`UPDATE books
		    SET title = ?, author = ?, description = ?, category = ?,
		        price_amount = ?, price_currency = ?, updated_at = ?
		  WHERE id = ?`,
		book.Title(),
		book.Author(),
		book.Description(),
		book.Category(),
		book.Price().Amount(),
		book.Price().Currency(),
		sqlite.Timestamp(book.UpdatedAt()),
		book.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	} else if n == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id types.BookID) (*domain.Book, error) {
	row := sqlite.ExecutorFrom(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id.String())

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read book: %w", err)
	}
	return book, nil
}

func (r *SQLiteRepository) FindByIDs(ctx context.Context, ids []types.BookID) (map[types.BookID]*domain.Book, error) {
	books := make(map[types.BookID]*domain.Book, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}

	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books[book.ID()] = book
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	return books, nil
}

// AdjustStock applies delta in a single guarded statement, so the check
// and the write cannot be separated by a concurrent writer.
func (r *SQLiteRepository) AdjustStock(ctx context.Context, id types.BookID, delta int) (int, error) {
	exec := sqlite.ExecutorFrom(ctx, r.db)

	var stock int
	err := exec.QueryRowContext(ctx,
		`UPDATE books SET stock = stock + ?, updated_at = ?
		  WHERE id = ? AND stock + ? >= 0
		RETURNING stock`,
		delta, sqlite.Timestamp(time.Now()), id.String(), delta,
	).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}

	// No row matched: either the book is missing or the guard refused.
	var exists int
	err = exec.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id = ?`, id.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrBookNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock: %w", err)
	}
	return 0, domain.ErrInsufficientStock
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (*domain.Book, error) {
	var (
		id, title, author, description, category, currency string
		amount                                             int64
		stock                                              int
		createdAt, updatedAt                               int64
	)
	if err := s.Scan(&id, &title, &author, &description, &category, &amount, &currency, &stock, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	bookID, err := types.ParseBookID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse book id %q: %w", id, err)
	}
	price, err := types.NewMoney(amount, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to read price of book %s: %w", id, err)
	}

	return domain.Reconstitute(
		bookID,
		title, author, description, category,
		price,
		stock,
		sqlite.FromTimestamp(createdAt),
		sqlite.FromTimestamp(updatedAt),
	), nil
}
