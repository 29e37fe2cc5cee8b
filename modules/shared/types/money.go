package types

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnitScale is how many decimal places a price carries.
const MinorUnitScale = 2

// Money is an exact amount of minor units (cents) in one currency. Sums
// never go through floating point.
type Money struct {
	amount   int64
	currency string
}

// NewMoney takes the amount in minor units and an upper case three letter
// currency code.
func NewMoney(amount int64, currency string) (Money, error) {
	if !validCurrency(currency) {
		return Money{}, ErrInvalidCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

func MustNewMoney(amount int64, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoney parses a decimal string such as "49.90" into Money.
// Values with more than MinorUnitScale fractional digits are rejected
// rather than rounded.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	minor := d.Shift(MinorUnitScale)
	if !minor.IsInteger() {
		return Money{}, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, MinorUnitScale)
	}
	if !minor.Equal(decimal.NewFromInt(minor.IntPart())) {
		return Money{}, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return NewMoney(minor.IntPart(), currency)
}

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }
func (m Money) IsZero() bool     { return m.amount == 0 }
func (m Money) IsNegative() bool { return m.amount < 0 }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: cannot add %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrAmountOverflow, m, other)
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Multiply fails with ErrAmountOverflow instead of wrapping around.
func (m Money) Multiply(factor int64) (Money, error) {
	if m.amount == 0 || factor == 0 {
		return Money{amount: 0, currency: m.currency}, nil
	}
	product := m.amount * factor
	if product/factor != m.amount ||
		(m.amount == math.MinInt64 && factor == -1) ||
		(factor == math.MinInt64 && m.amount == -1) {
		return Money{}, fmt.Errorf("%w: %s x %d", ErrAmountOverflow, m, factor)
	}
	return Money{amount: product, currency: m.currency}, nil
}

func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// Decimal renders the amount with exactly MinorUnitScale fractional digits.
func (m Money) Decimal() string {
	return decimal.New(m.amount, -MinorUnitScale).StringFixed(MinorUnitScale)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal(), m.currency)
}
