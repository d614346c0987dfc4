package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"quote-engine/internal/pricing"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
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

// decodeJSON parses the request body into v, rejecting unknown fields so a
// typo in a pricing request fails loudly instead of pricing with defaults.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// writePricingError maps the engine's typed errors to 422 and everything else
// to 500.
func writePricingError(w http.ResponseWriter, r *http.Request, err error) {
	var dimErr *pricing.InvalidDimensionError
	var exprErr *pricing.InvalidExpressionError
	var varErr *pricing.UnknownVariableError
	var divErr *pricing.DivisionByZeroError
	switch {
	case errors.As(err, &dimErr):
		writeError(w, r, err.Error(), "INVALID_DIMENSION", http.StatusUnprocessableEntity)
	case errors.As(err, &exprErr), errors.As(err, &varErr), errors.As(err, &divErr):
		writeError(w, r, err.Error(), "INVALID_FORMULA", http.StatusUnprocessableEntity)
	default:
		writeError(w, r, err.Error(), "PRICING_ERROR", http.StatusInternalServerError)
	}
}
