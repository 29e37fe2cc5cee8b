package types_test

import (
	"errors"
	"math"
	"testing"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{"50", 5000, nil},
		{"49.9", 4990, nil},
		{"0.01", 1, nil},
		{"19.99", 1999, nil},
		{"1.005", 0, types.ErrInvalidAmount},
		{"abc", 0, types.ErrInvalidAmount},
		{"", 0, types.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := types.ParseMoney(tt.in, "USD")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Amount() != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got.Amount())
			}
		})
	}
}

func TestMoney_Decimal(t *testing.T) {
	tests := map[int64]string{
		0:     "0.00",
		5:     "0.05",
		1999:  "19.99",
		12000: "120.00",
	}
	for amount, want := range tests {
		if got := types.MustNewMoney(amount, "USD").Decimal(); got != want {
			t.Errorf("%d: expected %s, got %s", amount, want, got)
		}
	}
}

func TestMoney_AddRejectsCurrencyMismatch(t *testing.T) {
	_, err := types.MustNewMoney(100, "USD").Add(types.MustNewMoney(100, "EUR"))

	if !errors.Is(err, types.ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestMoney_SumOfTenCentsIsExact(t *testing.T) {
	total := types.MustNewMoney(0, "USD")
	for range 10 {
		var err error
		if total, err = total.Add(types.MustNewMoney(10, "USD")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if total.Decimal() != "1.00" {
		t.Errorf("expected 1.00, got %s", total.Decimal())
	}
}

func TestMoney_MultiplyRejectsOverflow(t *testing.T) {
	maxPrice, err := types.ParseMoney("92233720368547758.07", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := maxPrice.Multiply(2); !errors.Is(err, types.ErrAmountOverflow) {
		t.Errorf("expected ErrAmountOverflow, got %v", err)
	}
	if _, err := types.MustNewMoney(math.MinInt64, "USD").Multiply(-1); !errors.Is(err, types.ErrAmountOverflow) {
		t.Errorf("expected ErrAmountOverflow for MinInt64 x -1, got %v", err)
	}

	got, err := maxPrice.Multiply(1)
	if err != nil || !got.Equals(maxPrice) {
		t.Errorf("expected %s, got %s (err %v)", maxPrice, got, err)
	}
	if got, err := types.MustNewMoney(1999, "USD").Multiply(3); err != nil || got.Amount() != 5997 {
		t.Errorf("expected 5997, got %d (err %v)", got.Amount(), err)
	}
}

func TestMoney_AddRejectsOverflow(t *testing.T) {
	big := types.MustNewMoney(math.MaxInt64, "USD")

	if _, err := big.Add(types.MustNewMoney(1, "USD")); !errors.Is(err, types.ErrAmountOverflow) {
		t.Errorf("expected ErrAmountOverflow, got %v", err)
	}
	if _, err := types.MustNewMoney(math.MinInt64, "USD").Add(types.MustNewMoney(-1, "USD")); !errors.Is(err, types.ErrAmountOverflow) {
		t.Errorf("expected ErrAmountOverflow for negative overflow, got %v", err)
	}
}

func TestNewMoney_RejectsBadCurrency(t *testing.T) {
	for _, code := range []string{"US", "usd", "U$D", ""} {
		if _, err := types.NewMoney(1, code); !errors.Is(err, types.ErrInvalidCurrency) {
			t.Errorf("%q: expected ErrInvalidCurrency, got %v", code, err)
		}
	}
}

func TestParseBookID_Normalizes(t *testing.T) {
	id, err := types.ParseBookID("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := id.String(); got != "6f9619ff-8b86-d011-b42d-00c04fc964ff" {
		t.Errorf("expected lowercase id, got %q", got)
	}
	if _, err := types.ParseBookID("not-a-uuid"); !errors.Is(err, types.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}
