package spanner

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

// ReadWriteTransactionScope runs work in a locking read-write transaction.
// Reads made through the transaction hold locks until commit, so two
// checkouts that read the same stock row are serialized by Spanner, and the
// loser is aborted and re-run.
type ReadWriteTransactionScope struct {
	client *spanner.Client
	tag    string
}

// NewReadWriteTransactionScope creates the scope. Create one per process.
func NewReadWriteTransactionScope(client *spanner.Client) *ReadWriteTransactionScope {
	return &ReadWriteTransactionScope{client: client, tag: "bookstore"}
}

// Execute runs fn and commits its buffered mutations if it returns nil.
//
// Spanner re-runs fn after an Aborted error, so fn must rebuild all of its
// state on every attempt and must not talk to anything outside the
// transaction (brokers, mail, other databases).
func (s *ReadWriteTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if hasTx(ctx) {
		return transaction.ErrNestedTransaction
	}
	_, err := s.client.ReadWriteTransactionWithOptions(ctx,
		func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
			txCtx, err := withReadWriteTx(ctx, tx)
			if err != nil {
				return err
			}
			return fn(txCtx)
		},
		spanner.TransactionOptions{TransactionTag: s.tag},
	)
	return err
}

// ReadOnlyTransactionScope gives a sequence of reads one strong snapshot
// without taking locks. Order history uses it to read orders and titles
// consistently.
type ReadOnlyTransactionScope struct {
	client *spanner.Client
}

func NewReadOnlyTransactionScope(client *spanner.Client) *ReadOnlyTransactionScope {
	return &ReadOnlyTransactionScope{client: client}
}

// Execute runs fn against a snapshot and releases it when fn returns.
func (s *ReadOnlyTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := s.client.ReadOnlyTransaction().WithTimestampBound(spanner.StrongRead())
	defer tx.Close()

	txCtx, err := withReadOnlyTx(ctx, tx)
	if err != nil {
		return err
	}
	return fn(txCtx)
}

var (
	_ transaction.Scope = (*ReadWriteTransactionScope)(nil)
	_ transaction.Scope = (*ReadOnlyTransactionScope)(nil)
)
