package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, model.ErrUnknownSubjectReference),
		errors.Is(err, model.ErrUnknownFundAccount):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidRange),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrPrecisionOverflow):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidSubjectConfiguration),
		errors.Is(err, model.ErrUnbalancedInput),
		errors.Is(err, model.ErrUnapprovedVoucher),
		errors.Is(err, model.ErrUnknownCategory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
