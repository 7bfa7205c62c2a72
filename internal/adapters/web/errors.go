package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"pcb-stockroom/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Available *int   `json:"available,omitempty"`
	Shortfall *int   `json:"shortfall,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeCoreError maps the core error taxonomy onto HTTP statuses.
// Insufficient-stock responses carry the available quantity and shortfall.
func writeCoreError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *core.ValidationError
		authErr       *core.AuthorizationError
		stockErr      *core.InsufficientStockError
		conflictErr   *core.ConflictError
		notFoundErr   *core.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, validationErr.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.As(err, &authErr):
		writeError(w, r, authErr.Error(), "AUTHORIZATION_ERROR", http.StatusForbidden)
	case errors.As(err, &stockErr):
		available := stockErr.Available
		shortfall := stockErr.Shortfall()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(errorResponse{
			Error:     stockErr.Error(),
			Code:      "INSUFFICIENT_STOCK",
			Available: &available,
			Shortfall: &shortfall,
			RequestID: requestIDFromContext(r.Context()),
		})
	case errors.As(err, &conflictErr):
		writeError(w, r, conflictErr.Error(), "CONFLICT", http.StatusConflict)
	case errors.As(err, &notFoundErr):
		writeError(w, r, notFoundErr.Error(), "NOT_FOUND", http.StatusNotFound)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
