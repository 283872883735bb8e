package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// errorResponse is the JSON error envelope
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondError writes a JSON error with the given status code
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps a domain error to an HTTP status and writes
// it. Validation errors become 400, business-rule rejections 422,
// missing resources 404, everything else 500.
func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	var currencyMismatch *domain.CurrencyMismatchError
	var invalidTicker *domain.InvalidTickerError
	var invalidQuantity *domain.InvalidQuantityError
	var insufficientFunds *domain.InsufficientFundsError
	var insufficientShares *domain.InsufficientSharesError

	switch {
	case errors.As(err, &currencyMismatch),
		errors.As(err, &invalidTicker),
		errors.As(err, &invalidQuantity),
		errors.Is(err, domain.ErrInvalidCurrency):
		return http.StatusBadRequest

	case errors.As(err, &insufficientFunds),
		errors.As(err, &insufficientShares):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrEmptySnapshotSeries),
		errors.Is(err, domain.ErrPriceNotAvailable),
		strings.Contains(err.Error(), "not found"):
		return http.StatusNotFound
	}

	// Entity-level validation failures surface as plain errors; fall
	// back to message-based mapping for those.
	msg := err.Error()
	if strings.Contains(msg, "must be positive") ||
		strings.Contains(msg, "must not") ||
		strings.Contains(msg, "must carry") ||
		strings.Contains(msg, "must reference") ||
		strings.Contains(msg, "invalid") {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
