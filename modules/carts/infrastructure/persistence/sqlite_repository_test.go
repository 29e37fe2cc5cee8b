package persistence_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/clean-bookstore-go/internal/platform/sqlite"
	"github.com/rai/clean-bookstore-go/modules/carts/domain"
	"github.com/rai/clean-bookstore-go/modules/carts/infrastructure/persistence"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

func newRepo(t *testing.T) *persistence.SQLiteRepository {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "carts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.ApplySchema(context.Background(), db, persistence.SQLiteSchema))
	return persistence.NewSQLiteRepository(db)
}

func TestSQLiteRepository_SaveFindAndUpsert(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID, bookID := types.NewUserID(), types.NewBookID()

	_, err := repo.FindByUserAndBook(ctx, userID, bookID)
	require.ErrorIs(t, err, domain.ErrCartLineNotFound)

	line := domain.NewCartLine(userID, bookID)
	require.NoError(t, repo.Save(ctx, line))
	line.Increment()
	require.NoError(t, repo.Save(ctx, line))

	got, err := repo.FindByUserAndBook(ctx, userID, bookID)
	require.NoError(t, err)
	assert.Equal(t, line.ID(), got.ID())
	assert.Equal(t, 2, got.Quantity())
}

func TestSQLiteRepository_RejectsSecondLineForSamePair(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	userID, bookID := types.NewUserID(), types.NewBookID()

	require.NoError(t, repo.Save(ctx, domain.NewCartLine(userID, bookID)))
	assert.Error(t, repo.Save(ctx, domain.NewCartLine(userID, bookID)))
}

func TestSQLiteRepository_ListByUserInCreationOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	alice, bob := types.NewUserID(), types.NewUserID()

	var want []types.BookID
	for range 3 {
		bookID := types.NewBookID()
		want = append(want, bookID)
		require.NoError(t, repo.Save(ctx, domain.NewCartLine(alice, bookID)))
	}
	require.NoError(t, repo.Save(ctx, domain.NewCartLine(bob, types.NewBookID())))

	// Touching the first line must not move it.
	first, err := repo.FindByUserAndBook(ctx, alice, want[0])
	require.NoError(t, err)
	first.Increment()
	require.NoError(t, repo.Save(ctx, first))

	lines, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	for i, line := range lines {
		assert.Equal(t, want[i], line.BookID())
	}
}

func TestSQLiteRepository_DeleteAndClear(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	alice, bob := types.NewUserID(), types.NewUserID()

	a1 := domain.NewCartLine(alice, types.NewBookID())
	require.NoError(t, repo.Save(ctx, a1))
	require.NoError(t, repo.Save(ctx, domain.NewCartLine(alice, types.NewBookID())))
	require.NoError(t, repo.Save(ctx, domain.NewCartLine(bob, types.NewBookID())))

	require.NoError(t, repo.Delete(ctx, a1))
	lines, err := repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	require.NoError(t, repo.DeleteByUser(ctx, alice))
	lines, err = repo.ListByUser(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = repo.ListByUser(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, lines, 1, "clearing one cart must not touch another")
}
