package handler

import (
	"errors"
	"net/http"

	"github.com/efreitasn/fxcredit/internal/domain"
)

// mapError maps domain errors to HTTP responses. Specific not-found
// sentinels are checked before the generic ErrNotFound they wrap.
func mapError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
	case errors.Is(err, domain.ErrSimulationNotFound):
		WriteError(w, http.StatusNotFound, domain.ErrSimulationNotFound.Error(), "Simulation not found")
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, domain.ErrSessionNotFound.Error(), "Session not found")
	case errors.Is(err, domain.ErrCustomerNotFound):
		WriteError(w, http.StatusNotFound, domain.ErrCustomerNotFound.Error(), "Customer not found")
	case errors.Is(err, domain.ErrPrimeBrokerNotFound):
		WriteError(w, http.StatusNotFound, domain.ErrPrimeBrokerNotFound.Error(), "Prime broker not found")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrTooManySimulations):
		WriteError(w, http.StatusTooManyRequests, "too_many_simulations", "Simulation limit reached; delete one first")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
