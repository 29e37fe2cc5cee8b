// Package types holds the value objects every module agrees on: the
// identifiers that cross module boundaries and Money.
package types

import (
	"github.com/google/uuid"
)

// Identifiers are canonical lowercase UUID strings. Parsing normalizes the
// input so that "ABC..." and "abc..." name the same row in storage.
func parseUUID(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", ErrInvalidID
	}
	return u.String(), nil
}

// UserID is the shopper identity handed over by the auth collaborator.
type UserID struct{ value string }

func NewUserID() UserID { return UserID{value: uuid.NewString()} }

func ParseUserID(s string) (UserID, error) {
	v, err := parseUUID(s)
	return UserID{value: v}, err
}

func (id UserID) String() string { return id.value }
func (id UserID) IsZero() bool   { return id.value == "" }

// BookID names a catalog entry.
type BookID struct{ value string }

func NewBookID() BookID { return BookID{value: uuid.NewString()} }

func ParseBookID(s string) (BookID, error) {
	v, err := parseUUID(s)
	return BookID{value: v}, err
}

func (id BookID) String() string { return id.value }
func (id BookID) IsZero() bool   { return id.value == "" }

// OrderID names a placed order.
type OrderID struct{ value string }

func NewOrderID() OrderID { return OrderID{value: uuid.NewString()} }

func ParseOrderID(s string) (OrderID, error) {
	v, err := parseUUID(s)
	return OrderID{value: v}, err
}

func (id OrderID) String() string { return id.value }
func (id OrderID) IsZero() bool   { return id.value == "" }

// CartLineID names one line in a shopper's cart.
type CartLineID struct{ value string }

func NewCartLineID() CartLineID { return CartLineID{value: uuid.NewString()} }

func ParseCartLineID(s string) (CartLineID, error) {
	v, err := parseUUID(s)
	return CartLineID{value: v}, err
}

func (id CartLineID) String() string { return id.value }
func (id CartLineID) IsZero() bool   { return id.value == "" }
