// Package domain contains the catalog entities: books and their stock level.
package domain

import (
	"strings"
	"time"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// Book is a sellable catalog entry. Stock is the number of units on hand
// and is only ever changed through BookRepository.AdjustStock.
type Book struct {
	id          types.BookID
	title       string
	author      string
	description string
	category    string
	price       types.Money
	stock       int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewBook validates the inputs and creates a book with its opening stock.
func NewBook(title, author, description, category string, price types.Money, stock int) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if author == "" {
		return nil, ErrAuthorRequired
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	now := time.Now().UTC()
	return &Book{
		id:          types.NewBookID(),
		title:       title,
		author:      author,
		description: strings.TrimSpace(description),
		category:    strings.TrimSpace(category),
		price:       price,
		stock:       stock,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstitute recreates a Book from persistence.
func Reconstitute(
	id types.BookID,
	title, author, description, category string,
	price types.Money,
	stock int,
	createdAt, updatedAt time.Time,
) *Book {
	return &Book{
		id:          id,
		title:       title,
		author:      author,
		description: description,
		category:    category,
		price:       price,
		stock:       stock,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (b *Book) ID() types.BookID     { return b.id }
func (b *Book) Title() string        { return b.title }
func (b *Book) Author() string       { return b.author }
func (b *Book) Description() string  { return b.description }
func (b *Book) Category() string     { return b.category }
func (b *Book) Price() types.Money   { return b.price }
func (b *Book) Stock() int           { return b.stock }
func (b *Book) CreatedAt() time.Time { return b.createdAt }
func (b *Book) UpdatedAt() time.Time { return b.updatedAt }

// ChangePrice sets the price charged by future checkouts. Orders already
// placed keep the price they captured.
func (b *Book) ChangePrice(price types.Money) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	b.price = price
	b.updatedAt = time.Now().UTC()
	return nil
}

// CanSupply reports whether qty units can be taken from stock.
func (b *Book) CanSupply(qty int) bool {
	return qty <= b.stock
}
