package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rai/clean-bookstore-go/internal/platform/httpserver"
	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

func TestUserIDFromRequest(t *testing.T) {
	valid := types.NewUserID()

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid", valid.String(), false},
		{"missing", "", true},
		{"malformed", "alice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(httpserver.UserIDHeader, tt.header)
			}

			got, err := httpserver.UserIDFromRequest(req)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != valid {
				t.Errorf("expected %s, got %s", valid, got)
			}
		})
	}
}

func TestNewRouter_Health(t *testing.T) {
	router := httpserver.NewRouter(httpserver.RouterConfig{AllowedOrigins: []string{"*"}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	router := httpserver.NewRouter(httpserver.RouterConfig{})
	router.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
