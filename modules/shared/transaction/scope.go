// Package transaction is the unit-of-work boundary application handlers
// run inside. A storage backend implements Scope and puts its live
// transaction into the context; repositories take it from there.
package transaction

import (
	"context"
	"errors"
)

// ErrNestedTransaction is returned by a Scope entered from a context that
// already holds a transaction. Opening a second, independent transaction
// there would let half of a checkout commit without the other half.
var ErrNestedTransaction = errors.New("transaction already open in context")

// Scope commits everything fn writes, or nothing.
//
// fn receives a context carrying the transaction. A backend that retries
// on contention (Spanner) calls fn again from the start, so fn must be
// free of side effects outside the store.
type Scope interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// ExecuteWithResult is Execute for work that yields a value. On retry the
// value of the last attempt wins; it is meaningless when err is non-nil.
func ExecuteWithResult[T any](ctx context.Context, scope Scope, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := scope.Execute(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		out = v
		return err
	})
	return out, err
}
