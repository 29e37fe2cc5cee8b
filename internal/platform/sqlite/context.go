package sqlite

import (
	"context"
	"database/sql"
	"time"
)

// Executor is the statement surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txKey is the context key for storing SQLite transactions.
type txKey struct{}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext extracts a *sql.Tx from context.
// Returns (nil, false) if no transaction is present.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// ExecutorFrom returns the active transaction in ctx, or db when there is none.
// Repositories must always go through it: with a single pooled connection a
// statement issued on db while a transaction is open would wait forever.
func ExecutorFrom(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

// Timestamp encodes t as Unix nanoseconds. Timestamps are stored as integers
// so that ORDER BY is exact and independent of the driver's time formatting.
func Timestamp(t time.Time) int64 {
	return t.UTC().UnixNano()
}

// FromTimestamp decodes a value written by Timestamp.
func FromTimestamp(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
