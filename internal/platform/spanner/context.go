package spanner

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

// ReadTransaction is the read surface shared by read-write and read-only
// transactions. Repositories read through it so the same code runs inside
// either kind of transaction.
type ReadTransaction interface {
	Read(ctx context.Context, table string, keys spanner.KeySet, columns []string) *spanner.RowIterator
	ReadRow(ctx context.Context, table string, key spanner.Key, columns []string) (*spanner.Row, error)
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

type (
	rwTxKey struct{}
	roTxKey struct{}
)

// withReadWriteTx embeds a Spanner ReadWriteTransaction in the context.
func withReadWriteTx(ctx context.Context, tx *spanner.ReadWriteTransaction) (context.Context, error) {
	if hasTx(ctx) {
		return nil, transaction.ErrNestedTransaction
	}
	return context.WithValue(ctx, rwTxKey{}, tx), nil
}

// withReadOnlyTx embeds a Spanner ReadOnlyTransaction in the context.
func withReadOnlyTx(ctx context.Context, tx *spanner.ReadOnlyTransaction) (context.Context, error) {
	if hasTx(ctx) {
		return nil, transaction.ErrNestedTransaction
	}
	return context.WithValue(ctx, roTxKey{}, tx), nil
}

func hasTx(ctx context.Context) bool {
	return ctx.Value(rwTxKey{}) != nil || ctx.Value(roTxKey{}) != nil
}

// ReadWriteTxFromContext extracts a Spanner ReadWriteTransaction from context.
// Returns (nil, false) if no read-write transaction is present.
func ReadWriteTxFromContext(ctx context.Context) (*spanner.ReadWriteTransaction, bool) {
	tx, ok := ctx.Value(rwTxKey{}).(*spanner.ReadWriteTransaction)
	return tx, ok
}

// ReadTransactionFromContext returns whichever transaction is active in ctx,
// read-write first. Returns (nil, false) if there is none.
func ReadTransactionFromContext(ctx context.Context) (ReadTransaction, bool) {
	if tx, ok := ReadWriteTxFromContext(ctx); ok {
		return tx, true
	}
	if tx, ok := ctx.Value(roTxKey{}).(*spanner.ReadOnlyTransaction); ok {
		return tx, true
	}
	return nil, false
}
