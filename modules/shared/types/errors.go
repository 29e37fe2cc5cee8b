package types

import "errors"

var (
	ErrInvalidID        = errors.New("not a valid identifier")
	ErrInvalidAmount    = errors.New("not a valid amount")
	ErrInvalidCurrency  = errors.New("currency must be a three letter code")
	ErrCurrencyMismatch = errors.New("amounts are in different currencies")
	ErrAmountOverflow   = errors.New("amount is too large")
)
