package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/clean-bookstore-go/internal/platform/sqlite"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

const counterSchema = `CREATE TABLE IF NOT EXISTS counters (name TEXT PRIMARY KEY, value INTEGER NOT NULL);`

func openTestDB(t *testing.T) *sqlite.TransactionScope {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.ApplySchema(context.Background(), db, counterSchema))
	return sqlite.NewTransactionScope(db)
}

func TestTransactionScope_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, sqlite.ApplySchema(ctx, db, counterSchema))
	scope := sqlite.NewTransactionScope(db)

	err = scope.Execute(ctx, func(ctx context.Context) error {
		_, err := sqlite.ExecutorFrom(ctx, db).ExecContext(ctx, `INSERT INTO counters(name, value) VALUES ('a', 1)`)
		return err
	})
	require.NoError(t, err)

	errBoom := errors.New("boom")
	err = scope.Execute(ctx, func(ctx context.Context) error {
		if _, err := sqlite.ExecutorFrom(ctx, db).ExecContext(ctx, `UPDATE counters SET value = 99 WHERE name = 'a'`); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	var value int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = 'a'`).Scan(&value))
	assert.Equal(t, 1, value, "rolled back update must not be visible")
}

func TestTransactionScope_RejectsNesting(t *testing.T) {
	scope := openTestDB(t)

	err := scope.Execute(context.Background(), func(ctx context.Context) error {
		return scope.Execute(ctx, func(ctx context.Context) error { return nil })
	})

	assert.ErrorIs(t, err, transaction.ErrNestedTransaction)
}

func TestTransactionScope_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, sqlite.ApplySchema(ctx, db, counterSchema))
	scope := sqlite.NewTransactionScope(db)

	assert.Panics(t, func() {
		_ = scope.Execute(ctx, func(ctx context.Context) error {
			_, _ = sqlite.ExecutorFrom(ctx, db).ExecContext(ctx, `INSERT INTO counters(name, value) VALUES ('p', 1)`)
			panic("handler bug")
		})
	})

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM counters`).Scan(&count))
	assert.Zero(t, count)
}
