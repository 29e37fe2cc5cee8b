package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

// TransactionScope implements transaction.Scope on a *sql.DB.
type TransactionScope struct {
	db *sql.DB
}

func NewTransactionScope(db *sql.DB) *TransactionScope {
	return &TransactionScope{db: db}
}

// Execute runs fn inside a database transaction carried in ctx.
// The transaction is committed if fn returns nil and rolled back otherwise,
// including when fn panics.
func (s *TransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return transaction.ErrNestedTransaction
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("sqlite: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ transaction.Scope = (*TransactionScope)(nil)
