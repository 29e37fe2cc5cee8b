package persistence

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	platformspanner "github.com/rai/clean-bookstore-go/internal/platform/spanner"
	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

var bookSpannerColumns = []string{
	"BookID", "Title", "Author", "Description", "Category",
	"PriceAmount", "PriceCurrency", "Stock", "CreatedAt", "UpdatedAt",
}

type SpannerRepository struct {
	client *spanner.Client
}

func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

// apply buffers mutations in the active read-write transaction, or applies
// them on their own when there is none.
func (r *SpannerRepository) apply(ctx context.Context, mutations ...*spanner.Mutation) error {
	if txn, ok := platformspanner.ReadWriteTxFromContext(ctx); ok {
		return txn.BufferWrite(mutations)
	}
	_, err := r.client.Apply(ctx, mutations)
	return err
}

func (r *SpannerRepository) Create(ctx context.Context, book *domain.Book) error {
	m := spanner.Insert("Books", bookSpannerColumns, []interface{}{
		book.ID().String(),
		book.Title(),
		book.Author(),
		book.Description(),
		book.Category(),
		book.Price().Amount(),
		book.Price().Currency(),
		int64(book.Stock()),
		book.CreatedAt(),
		book.UpdatedAt(),
	})
	if err := r.apply(ctx, m); err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// UpdateDetails leaves the Stock column out of the mutation entirely. The
// row is read first so that a missing book is reported as ErrBookNotFound
// instead of surfacing as a commit failure.
func (r *SpannerRepository) UpdateDetails(ctx context.Context, book *domain.Book) error {
	if txn, ok := platformspanner.ReadWriteTxFromContext(ctx); ok {
		return updateDetailsWithTx(ctx, txn, book)
	}
	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		return updateDetailsWithTx(ctx, txn, book)
	})
	return err
}

func updateDetailsWithTx(ctx context.Context, txn *spanner.ReadWriteTransaction, book *domain.Book) error {
	if _, err := txn.ReadRow(ctx, "Books", spanner.Key{book.ID().String()}, []string{"BookID"}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrBookNotFound
		}
		return fmt.Errorf("failed to read book: %w", err)
	}

	m := spanner.Update("Books",
		[]string{"BookID", "Title", "Author", "Description", "Category", "PriceAmount", "PriceCurrency", "UpdatedAt"},
		[]interface{}{
			book.ID().String(),
			book.Title(),
			book.Author(),
			book.Description(),
			book.Category(),
			book.Price().Amount(),
			book.Price().Currency(),
			book.UpdatedAt(),
		},
	)
	if err := txn.BufferWrite([]*spanner.Mutation{m}); err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	return nil
}

func (r *SpannerRepository) FindByID(ctx context.Context, id types.BookID) (*domain.Book, error) {
	reader, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		single := r.client.Single()
		defer single.Close()
		reader = single
	}
	return r.readBook(ctx, reader, id)
}

func (r *SpannerRepository) readBook(ctx context.Context, reader platformspanner.ReadTransaction, id types.BookID) (*domain.Book, error) {
	row, err := reader.ReadRow(ctx, "Books", spanner.Key{id.String()}, bookSpannerColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to read book: %w", err)
	}
	return scanSpannerBook(row)
}

func (r *SpannerRepository) FindByIDs(ctx context.Context, ids []types.BookID) (map[types.BookID]*domain.Book, error) {
	books := make(map[types.BookID]*domain.Book, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	reader, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		single := r.client.Single()
		defer single.Close()
		reader = single
	}

	keys := make([]spanner.Key, len(ids))
	for i, id := range ids {
		keys[i] = spanner.Key{id.String()}
	}

	iter := reader.Read(ctx, "Books", spanner.KeySetFromKeys(keys...), bookSpannerColumns)
	defer iter.Stop()

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read books: %w", err)
		}
		book, err := scanSpannerBook(row)
		if err != nil {
			return nil, err
		}
		books[book.ID()] = book
	}
	return books, nil
}

// AdjustStock reads and rewrites the stock inside one read-write
// transaction. The read takes a lock, so a concurrent adjustment of the same
// row either waits or aborts and is retried against the new value.
func (r *SpannerRepository) AdjustStock(ctx context.Context, id types.BookID, delta int) (int, error) {
	if txn, ok := platformspanner.ReadWriteTxFromContext(ctx); ok {
		return adjustStockWithTx(ctx, txn, id, delta)
	}

	var stock int
	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		var err error
		stock, err = adjustStockWithTx(ctx, txn, id, delta)
		return err
	})
	if err != nil {
		return 0, err
	}
	return stock, nil
}

func adjustStockWithTx(ctx context.Context, txn *spanner.ReadWriteTransaction, id types.BookID, delta int) (int, error) {
	row, err := txn.ReadRow(ctx, "Books", spanner.Key{id.String()}, []string{"Stock"})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return 0, domain.ErrBookNotFound
		}
		return 0, fmt.Errorf("failed to read stock: %w", err)
	}

	var current int64
	if err := row.Columns(&current); err != nil {
		return 0, fmt.Errorf("failed to scan stock: %w", err)
	}

	next := current + int64(delta)
	if next < 0 {
		return 0, domain.ErrInsufficientStock
	}

	if err := txn.BufferWrite([]*spanner.Mutation{
		spanner.Update("Books",
			[]string{"BookID", "Stock", "UpdatedAt"},
			[]interface{}{id.String(), next, time.Now().UTC()},
		),
	}); err != nil {
		return 0, fmt.Errorf("failed to write stock: %w", err)
	}
	return int(next), nil
}

func scanSpannerBook(row *spanner.Row) (*domain.Book, error) {
	var (
		id, title, author, description, category, currency string
		amount, stock                                      int64
		createdAt, updatedAt                               time.Time
	)
	if err := row.Columns(&id, &title, &author, &description, &category, &amount, &currency, &stock, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}

	bookID, err := types.ParseBookID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to parse book id %q: %w", id, err)
	}
	price, err := types.NewMoney(amount, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to read price of book %s: %w", id, err)
	}

	return domain.Reconstitute(bookID, title, author, description, category, price, int(stock), createdAt, updatedAt), nil
}
