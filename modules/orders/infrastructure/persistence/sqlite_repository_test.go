package persistence_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/clean-bookstore-go/internal/platform/sqlite"
	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	"github.com/rai/clean-bookstore-go/modules/orders/infrastructure/persistence"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

type fixture struct {
	repo  *persistence.SQLiteRepository
	scope *sqlite.TransactionScope
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.ApplySchema(context.Background(), db, persistence.SQLiteSchema))
	return fixture{repo: persistence.NewSQLiteRepository(db), scope: sqlite.NewTransactionScope(db)}
}

func placeOrder(t *testing.T, userID types.UserID, prices ...int64) *domain.Order {
	t.Helper()
	lines := make([]domain.OrderLine, len(prices))
	for i, p := range prices {
		line, err := domain.NewOrderLine(i+1, types.NewBookID(), i+1, types.MustNewMoney(p, "USD"))
		require.NoError(t, err)
		lines[i] = line
	}
	order, err := domain.PlaceOrder(userID, lines)
	require.NoError(t, err)
	return order
}

func TestSQLiteRepository_SaveAndFindByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := placeOrder(t, types.NewUserID(), 5000, 2000, 1)

	require.NoError(t, f.repo.Save(ctx, order))

	got, err := f.repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ID(), got.ID())
	assert.Equal(t, order.UserID(), got.UserID())
	assert.Equal(t, domain.StatusPlaced, got.Status())
	assert.Equal(t, order.Total().Amount(), got.Total().Amount())
	assert.Equal(t, "USD", got.Total().Currency())
	assert.Equal(t, order.PlacedAt().UnixNano(), got.PlacedAt().UnixNano())
	require.Len(t, got.Lines(), 3)
	for i, line := range got.Lines() {
		assert.Equal(t, order.Lines()[i], line)
	}
}

func TestSQLiteRepository_FindByIDNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.FindByID(context.Background(), types.NewOrderID())

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestSQLiteRepository_SaveJoinsOuterTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := placeOrder(t, types.NewUserID(), 1000)

	err := f.scope.Execute(ctx, func(ctx context.Context) error {
		require.NoError(t, f.repo.Save(ctx, order))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = f.repo.FindByID(ctx, order.ID())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound, "rolled back order must not be visible")
}

func TestSQLiteRepository_SaveUpdatesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := placeOrder(t, types.NewUserID(), 1000, 2000)
	require.NoError(t, f.repo.Save(ctx, order))

	require.NoError(t, order.Pay())
	require.NoError(t, f.repo.Save(ctx, order))

	got, err := f.repo.FindByID(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status())
	assert.Len(t, got.Lines(), 2)
}

func TestSQLiteRepository_FindByUserNewestFirstWithPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := types.NewUserID(), types.NewUserID()

	var placed []*domain.Order
	for i := range 3 {
		order := placeOrder(t, alice, int64(1000*(i+1)))
		require.NoError(t, f.repo.Save(ctx, order))
		placed = append(placed, order)
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, f.repo.Save(ctx, placeOrder(t, bob, 999)))

	all, total, err := f.repo.FindByUser(ctx, alice, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, placed[2].ID(), all[0].ID())
	assert.Equal(t, placed[1].ID(), all[1].ID())
	assert.Equal(t, placed[0].ID(), all[2].ID())
	for _, order := range all {
		assert.Len(t, order.Lines(), 1)
	}

	page, total, err := f.repo.FindByUser(ctx, alice, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, placed[1].ID(), page[0].ID())
}

func TestSQLiteRepository_FindByUserWithoutOrders(t *testing.T) {
	f := newFixture(t)

	orders, total, err := f.repo.FindByUser(context.Background(), types.NewUserID(), 0, 0)

	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, total)
}
