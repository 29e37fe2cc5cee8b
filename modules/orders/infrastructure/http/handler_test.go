package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rai/clean-bookstore-go/internal/platform/httpserver"
	"github.com/rai/clean-bookstore-go/modules/orders/application/commands"
	"github.com/rai/clean-bookstore-go/modules/orders/application/queries"
	"github.com/rai/clean-bookstore-go/modules/orders/domain"
	httphandler "github.com/rai/clean-bookstore-go/modules/orders/infrastructure/http"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

type checkoutFunc func(ctx context.Context, cmd commands.CheckoutCommand) (*commands.CheckoutResult, error)

func (f checkoutFunc) Handle(ctx context.Context, cmd commands.CheckoutCommand) (*commands.CheckoutResult, error) {
	return f(ctx, cmd)
}

type getOrderFunc func(ctx context.Context, q queries.GetOrderQuery) (*queries.OrderDTO, error)

func (f getOrderFunc) Handle(ctx context.Context, q queries.GetOrderQuery) (*queries.OrderDTO, error) {
	return f(ctx, q)
}

type listOrdersFunc func(ctx context.Context, q queries.ListUserOrdersQuery) (*queries.OrderListDTO, error)

func (f listOrdersFunc) Handle(ctx context.Context, q queries.ListUserOrdersQuery) (*queries.OrderListDTO, error) {
	return f(ctx, q)
}

func serve(h *httphandler.Handler, method, target string, userID *types.UserID) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	req := httptest.NewRequest(method, target, nil)
	if userID != nil {
		req.Header.Set(httpserver.UserIDHeader, userID.String())
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func failingCheckout(err error) *httphandler.Handler {
	return httphandler.NewHandler(
		checkoutFunc(func(ctx context.Context, cmd commands.CheckoutCommand) (*commands.CheckoutResult, error) {
			return nil, err
		}),
		nil, nil,
	)
}

func TestHandler_Checkout_Created(t *testing.T) {
	userID, bookID := types.NewUserID(), types.NewBookID()
	line, _ := domain.NewOrderLine(1, bookID, 2, types.MustNewMoney(5000, "USD"))
	order, _ := domain.PlaceOrder(userID, []domain.OrderLine{line})

	var got commands.CheckoutCommand
	h := httphandler.NewHandler(
		checkoutFunc(func(ctx context.Context, cmd commands.CheckoutCommand) (*commands.CheckoutResult, error) {
			got = cmd
			return &commands.CheckoutResult{Order: order, Titles: map[types.BookID]string{bookID: "Dune"}}, nil
		}),
		nil, nil,
	)

	rec := serve(h, http.MethodPost, "/checkout", &userID)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if got.UserID != userID {
		t.Errorf("expected checkout for %s, got %s", userID, got.UserID)
	}
	var body queries.OrderDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.ID != order.ID().String() || body.Total.Amount != "100.00" || body.Lines[0].Title != "Dune" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestHandler_Checkout_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest},
		{"book not found", domain.ErrBookNotFound, http.StatusNotFound},
		{"storage failure", fmt.Errorf("%w: disk I/O error", domain.ErrStorageFailure), http.StatusInternalServerError},
		{"bare insufficient stock", domain.ErrInsufficientStock, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := types.NewUserID()

			rec := serve(failingCheckout(tt.err), http.MethodPost, "/checkout", &userID)

			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body)
			}
		})
	}
}

func TestHandler_Checkout_InsufficientStockNamesTitle(t *testing.T) {
	userID, bookID := types.NewUserID(), types.NewBookID()
	h := failingCheckout(&domain.InsufficientStockError{BookID: bookID, Title: "Dune", Requested: 3, Available: 1})

	rec := serve(h, http.MethodPost, "/checkout", &userID)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body struct {
		Error     string `json:"error"`
		Code      string `json:"code"`
		Title     string `json:"title"`
		BookID    string `json:"book_id"`
		Available int    `json:"available"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Title != "Dune" || body.BookID != bookID.String() || body.Available != 1 || body.Code != "insufficient_stock" {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestHandler_Checkout_StorageFailureHidesDetail(t *testing.T) {
	userID := types.NewUserID()

	rec := serve(failingCheckout(fmt.Errorf("%w: secret table name", domain.ErrStorageFailure)), http.MethodPost, "/checkout", &userID)

	var body httpserver.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("expected generic message, got %q", body.Error)
	}
}

func TestHandler_RequiresIdentity(t *testing.T) {
	h := httphandler.NewHandler(
		checkoutFunc(func(ctx context.Context, cmd commands.CheckoutCommand) (*commands.CheckoutResult, error) {
			t.Fatal("checkout must not run without identity")
			return nil, nil
		}),
		getOrderFunc(func(ctx context.Context, q queries.GetOrderQuery) (*queries.OrderDTO, error) {
			t.Fatal("query must not run without identity")
			return nil, nil
		}),
		listOrdersFunc(func(ctx context.Context, q queries.ListUserOrdersQuery) (*queries.OrderListDTO, error) {
			t.Fatal("query must not run without identity")
			return nil, nil
		}),
	)

	for _, target := range []struct{ method, path string }{
		{http.MethodPost, "/checkout"},
		{http.MethodGet, "/orders"},
		{http.MethodGet, "/orders/" + types.NewOrderID().String()},
	} {
		rec := serve(h, target.method, target.path, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", target.method, target.path, rec.Code)
		}
	}
}

func TestHandler_ListUserOrders_Paging(t *testing.T) {
	userID := types.NewUserID()
	var got queries.ListUserOrdersQuery
	h := httphandler.NewHandler(nil, nil,
		listOrdersFunc(func(ctx context.Context, q queries.ListUserOrdersQuery) (*queries.OrderListDTO, error) {
			got = q
			return &queries.OrderListDTO{Orders: []*queries.OrderDTO{}}, nil
		}),
	)

	rec := serve(h, http.MethodGet, "/orders?offset=10&limit=5", &userID)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if got.UserID != userID || got.Offset != 10 || got.Limit != 5 {
		t.Errorf("unexpected query %+v", got)
	}
}

func TestHandler_ListUserOrders_InvalidPaging(t *testing.T) {
	userID := types.NewUserID()
	h := httphandler.NewHandler(nil, nil,
		listOrdersFunc(func(ctx context.Context, q queries.ListUserOrdersQuery) (*queries.OrderListDTO, error) {
			t.Fatal("query must not run with invalid paging")
			return nil, nil
		}),
	)

	for _, target := range []string{"/orders?offset=-1", "/orders?limit=abc"} {
		rec := serve(h, http.MethodGet, target, &userID)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestHandler_GetOrder_NotFound(t *testing.T) {
	userID := types.NewUserID()
	orderID := types.NewOrderID().String()
	h := httphandler.NewHandler(nil,
		getOrderFunc(func(ctx context.Context, q queries.GetOrderQuery) (*queries.OrderDTO, error) {
			if q.OrderID != orderID {
				t.Errorf("expected id %s, got %s", orderID, q.OrderID)
			}
			return nil, domain.ErrOrderNotFound
		}),
		nil,
	)

	rec := serve(h, http.MethodGet, "/orders/"+orderID, &userID)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_UnknownErrorIs500(t *testing.T) {
	userID := types.NewUserID()
	h := httphandler.NewHandler(nil,
		getOrderFunc(func(ctx context.Context, q queries.GetOrderQuery) (*queries.OrderDTO, error) {
			return nil, errors.New("boom")
		}),
		nil,
	)

	rec := serve(h, http.MethodGet, "/orders/x", &userID)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
