// Package commands contains write use cases for the orders module.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	"github.com/rai/clean-bookstore-go/modules/shared/events"
	"github.com/rai/clean-bookstore-go/modules/shared/transaction"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// Checkout outcomes reported to the CheckoutObserver.
const (
	OutcomePlaced            = "placed"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeNotFound          = "not_found"
	OutcomeStorageFailure    = "storage_failure"
)

// CheckoutObserver records the outcome of every checkout attempt.
type CheckoutObserver interface {
	ObserveCheckout(outcome string, elapsed time.Duration, units int)
}

// CheckoutCommand converts the user's cart into an order. UserID comes from
// the authenticated caller, never from the request body.
type CheckoutCommand struct {
	UserID types.UserID
}

// CheckoutResult is the placed order plus the titles read while placing it.
type CheckoutResult struct {
	Order  *domain.Order
	Titles map[types.BookID]string
}

type CheckoutHandler struct {
	repo      domain.OrderRepository
	carts     domain.CartSource
	inventory domain.Inventory
	txScope   transaction.Scope
	publisher events.Publisher
	observer  CheckoutObserver
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewCheckoutHandler(
	repo domain.OrderRepository,
	carts domain.CartSource,
	inventory domain.Inventory,
	txScope transaction.Scope,
	publisher events.Publisher,
	observer CheckoutObserver,
	logger *slog.Logger,
) *CheckoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutHandler{
		repo:      repo,
		carts:     carts,
		inventory: inventory,
		txScope:   txScope,
		publisher: publisher,
		observer:  observer,
		tracer:    otel.Tracer("github.com/rai/clean-bookstore-go/modules/orders"),
		logger:    logger,
	}
}

// Handle runs the whole checkout in one transaction: either every line's
// stock is decremented, the order is stored and the cart is emptied, or
// nothing changes. OrderPlacedEvent is published only after commit.
//
// Errors are ErrEmptyCart, ErrBookNotFound, *InsufficientStockError
// (matching ErrInsufficientStock), or ErrStorageFailure for anything else.
func (h *CheckoutHandler) Handle(ctx context.Context, cmd CheckoutCommand) (*CheckoutResult, error) {
	ctx, span := h.tracer.Start(ctx, "orders.Checkout",
		trace.WithAttributes(attribute.String("user.id", cmd.UserID.String())))
	defer span.End()
	start := time.Now()

	result, err := transaction.ExecuteWithResult(ctx, h.txScope, func(ctx context.Context) (*CheckoutResult, error) {
		return h.checkout(ctx, cmd.UserID)
	})
	err = toBoundaryError(err)

	outcome := outcomeOf(err)
	units := 0
	if err == nil {
		units = result.Order.Units()
	}
	if h.observer != nil {
		h.observer.ObserveCheckout(outcome, time.Since(start), units)
	}
	span.SetAttributes(attribute.String("checkout.outcome", outcome))

	if err != nil {
		if outcome == OutcomeStorageFailure {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			h.logger.ErrorContext(ctx, "checkout failed",
				slog.String("user_id", cmd.UserID.String()),
				slog.Any("error", err))
		} else {
			h.logger.InfoContext(ctx, "checkout rejected",
				slog.String("user_id", cmd.UserID.String()),
				slog.String("outcome", outcome),
				slog.String("reason", err.Error()))
		}
		return nil, err
	}

	order := result.Order
	span.SetAttributes(attribute.String("order.id", order.ID().String()))
	h.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID().String()),
		slog.String("user_id", cmd.UserID.String()),
		slog.String("total", order.Total().String()),
		slog.Int("lines", len(order.Lines())))

	// The order is committed; a failing subscriber must not fail checkout.
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, order.PopDomainEvents()...); err != nil {
			h.logger.WarnContext(ctx, "publishing order events failed",
				slog.String("order_id", order.ID().String()),
				slog.Any("error", err))
		}
	}

	return result, nil
}

// checkout runs inside the transaction. It may be re-run from scratch when
// the backend retries, so it only touches state through ctx.
func (h *CheckoutHandler) checkout(ctx context.Context, userID types.UserID) (*CheckoutResult, error) {
	items, err := h.carts.Items(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Validate every line before the first write so a failure on a later
	// line reports without having mutated anything.
	books := make([]domain.StockedBook, len(items))
	for i, item := range items {
		book, err := h.inventory.Lookup(ctx, item.BookID)
		if err != nil {
			return nil, err
		}
		if book.Stock < item.Quantity {
			return nil, &domain.InsufficientStockError{
				BookID:    item.BookID,
				Title:     book.Title,
				Requested: item.Quantity,
				Available: book.Stock,
			}
		}
		books[i] = book
	}

	lines := make([]domain.OrderLine, 0, len(items))
	titles := make(map[types.BookID]string, len(items))
	for i, item := range items {
		if err := h.inventory.Decrement(ctx, item.BookID, item.Quantity); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, h.drainedError(ctx, books[i], item.Quantity)
			}
			return nil, fmt.Errorf("decrementing stock of %s: %w", item.BookID, err)
		}

		line, err := domain.NewOrderLine(i+1, item.BookID, item.Quantity, books[i].Price)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		titles[item.BookID] = books[i].Title
	}

	order, err := domain.PlaceOrder(userID, lines)
	if err != nil {
		return nil, err
	}
	if err := h.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("saving order: %w", err)
	}
	if err := h.carts.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clearing cart: %w", err)
	}

	return &CheckoutResult{Order: order, Titles: titles}, nil
}

// drainedError reports a line whose stock was taken by a concurrent writer
// between validation and decrement.
func (h *CheckoutHandler) drainedError(ctx context.Context, book domain.StockedBook, requested int) error {
	available := 0
	if current, err := h.inventory.Lookup(ctx, book.BookID); err == nil {
		available = current.Stock
	}
	return &domain.InsufficientStockError{
		BookID:    book.BookID,
		Title:     book.Title,
		Requested: requested,
		Available: available,
	}
}

// toBoundaryError lets the expected checkout failures through and folds
// everything else into ErrStorageFailure without exposing the inner type.
func toBoundaryError(err error) error {
	switch {
	case err == nil,
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrBookNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomePlaced
	case errors.Is(err, domain.ErrEmptyCart):
		return OutcomeEmptyCart
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, domain.ErrBookNotFound):
		return OutcomeNotFound
	default:
		return OutcomeStorageFailure
	}
}
