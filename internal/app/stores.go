package app

import (
	"context"
	"database/sql"

	"cloud.google.com/go/spanner"

	platformspanner "github.com/rai/clean-bookstore-go/internal/platform/spanner"
	"github.com/rai/clean-bookstore-go/internal/platform/sqlite"
	cartdomain "github.com/rai/clean-bookstore-go/modules/carts/domain"
	cartpersistence "github.com/rai/clean-bookstore-go/modules/carts/infrastructure/persistence"
	catalogdomain "github.com/rai/clean-bookstore-go/modules/catalog/domain"
	catalogpersistence "github.com/rai/clean-bookstore-go/modules/catalog/infrastructure/persistence"
	orderdomain "github.com/rai/clean-bookstore-go/modules/orders/domain"
	orderpersistence "github.com/rai/clean-bookstore-go/modules/orders/infrastructure/persistence"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
)

// Stores is one storage backend: a repository per module and the
// transaction scopes they all join.
type Stores struct {
	Books            catalogdomain.BookRepository
	Carts            cartdomain.CartRepository
	Orders           orderdomain.OrderRepository
	TransactionScope transaction.Scope
	// ReadScope is used by multi-read queries. Nil means TransactionScope.
	ReadScope transaction.Scope
}

// SQLiteSchema lists the DDL of every module, in dependency order.
var SQLiteSchema = []string{
	catalogpersistence.SQLiteSchema,
	cartpersistence.SQLiteSchema,
	orderpersistence.SQLiteSchema,
}

// NewSQLiteStores creates the schema if needed and returns SQLite-backed stores.
func NewSQLiteStores(ctx context.Context, db *sql.DB) (Stores, error) {
	if err := sqlite.ApplySchema(ctx, db, SQLiteSchema...); err != nil {
		return Stores{}, err
	}
	return Stores{
		Books:            catalogpersistence.NewSQLiteRepository(db),
		Carts:            cartpersistence.NewSQLiteRepository(db),
		Orders:           orderpersistence.NewSQLiteRepository(db),
		TransactionScope: sqlite.NewTransactionScope(db),
	}, nil
}

// NewSpannerStores returns Spanner-backed stores. The schema is managed
// out of band (db/spanner/schema.sql).
func NewSpannerStores(client *spanner.Client) Stores {
	return Stores{
		Books:            catalogpersistence.NewSpannerRepository(client),
		Carts:            cartpersistence.NewSpannerRepository(client),
		Orders:           orderpersistence.NewSpannerRepository(client),
		TransactionScope: platformspanner.NewReadWriteTransactionScope(client),
		ReadScope:        platformspanner.NewReadOnlyTransactionScope(client),
	}
}
