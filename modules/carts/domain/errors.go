package domain

import "errors"

var (
	ErrCartLineNotFound = errors.New("book is not in the cart")
	ErrBookNotFound     = errors.New("book not found")
	ErrOutOfStock       = errors.New("book is currently out of stock")
)
