package domain_test

import (
	"errors"
	"testing"

	"github.com/rai/clean-bookstore-go/modules/catalog/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

func TestNewBook(t *testing.T) {
	usd := func(amount int64) types.Money { return types.MustNewMoney(amount, "USD") }

	tests := []struct {
		name    string
		title   string
		author  string
		price   types.Money
		stock   int
		wantErr error
	}{
		{"valid", "Dune", "Frank Herbert", usd(1999), 3, nil},
		{"free book", "Pamphlet", "Anon", usd(0), 0, nil},
		{"blank title", "   ", "Frank Herbert", usd(1999), 3, domain.ErrTitleRequired},
		{"missing author", "Dune", "", usd(1999), 3, domain.ErrAuthorRequired},
		{"negative price", "Dune", "Frank Herbert", usd(-1), 3, domain.ErrNegativePrice},
		{"negative stock", "Dune", "Frank Herbert", usd(1999), -1, domain.ErrNegativeStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, err := domain.NewBook(tt.title, tt.author, "", "fiction", tt.price, tt.stock)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				return
			}
			if book.ID().IsZero() {
				t.Error("expected an id to be assigned")
			}
			if book.Stock() != tt.stock {
				t.Errorf("expected stock %d, got %d", tt.stock, book.Stock())
			}
		})
	}
}

func TestBook_ChangePrice(t *testing.T) {
	book, err := domain.NewBook("Dune", "Frank Herbert", "", "", types.MustNewMoney(1999, "USD"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := book.ChangePrice(types.MustNewMoney(-5, "USD")); !errors.Is(err, domain.ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
	if err := book.ChangePrice(types.MustNewMoney(2499, "USD")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if book.Price().Amount() != 2499 {
		t.Errorf("expected 2499, got %d", book.Price().Amount())
	}
}

func TestBook_CanSupply(t *testing.T) {
	book, _ := domain.NewBook("Dune", "Frank Herbert", "", "", types.MustNewMoney(1999, "USD"), 2)

	if !book.CanSupply(2) {
		t.Error("expected exact stock to be suppliable")
	}
	if book.CanSupply(3) {
		t.Error("expected stock + 1 to be refused")
	}
}
