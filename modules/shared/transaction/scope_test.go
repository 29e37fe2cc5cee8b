package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

// scopeFunc adapts a function to transaction.Scope.
type scopeFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f scopeFunc) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

var (
	runOnce = scopeFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	})
	errCommit  = errors.New("commit failed")
	failCommit = scopeFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
		_ = fn(ctx)
		return errCommit
	})
	// runTwice mimics a backend that aborted the first attempt and retried.
	runTwice = scopeFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
		_ = fn(ctx)
		return fn(ctx)
	})
)

func TestExecuteWithResult(t *testing.T) {
	errWork := errors.New("work failed")

	tests := []struct {
		name     string
		scope    transaction.Scope
		work     func(attempt int) (int, error)
		want     int
		wantErr  error
		attempts int
	}{
		{
			name:     "returns the value",
			scope:    runOnce,
			work:     func(int) (int, error) { return 7, nil },
			want:     7,
			attempts: 1,
		},
		{
			name:     "returns the work error",
			scope:    runOnce,
			work:     func(int) (int, error) { return 0, errWork },
			wantErr:  errWork,
			attempts: 1,
		},
		{
			name:     "returns the commit error",
			scope:    failCommit,
			work:     func(int) (int, error) { return 42, nil },
			wantErr:  errCommit,
			attempts: 1,
		},
		{
			name:     "keeps the last attempt on retry",
			scope:    runTwice,
			work:     func(attempt int) (int, error) { return attempt * 10, nil },
			want:     20,
			attempts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			got, err := transaction.ExecuteWithResult(context.Background(), tt.scope, func(ctx context.Context) (int, error) {
				attempts++
				return tt.work(attempts)
			})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("expected %d, got %d", tt.want, got)
				}
			}
			if attempts != tt.attempts {
				t.Errorf("expected %d attempts, got %d", tt.attempts, attempts)
			}
		})
	}
}
