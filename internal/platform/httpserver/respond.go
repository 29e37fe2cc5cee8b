package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rai/clean-bookstore-go/modules/shared/types"
)

// UserIDHeader carries the authenticated shopper's identity. It is set by
// the upstream auth collaborator and trusted as-is.
const UserIDHeader = "X-User-ID"

// ErrMissingUserID is returned when a request carries no usable identity.
var ErrMissingUserID = errors.New("missing or invalid " + UserIDHeader + " header")

// UserIDFromRequest extracts the shopper identity from the request.
func UserIDFromRequest(r *http.Request) (types.UserID, error) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		return types.UserID{}, ErrMissingUserID
	}
	id, err := types.ParseUserID(raw)
	if err != nil {
		return types.UserID{}, ErrMissingUserID
	}
	return id, nil
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error body.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
