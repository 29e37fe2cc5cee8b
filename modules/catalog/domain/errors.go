package domain

import "errors"

// Domain errors - business rule violations.
var (
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrTitleRequired  = errors.New("title is required")
	ErrAuthorRequired = errors.New("author is required")
	ErrNegativePrice  = errors.New("price must not be negative")
	ErrNegativeStock  = errors.New("stock must not be negative")
	ErrZeroAdjustment = errors.New("stock adjustment must not be zero")
)
