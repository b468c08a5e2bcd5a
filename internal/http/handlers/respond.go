// Package handlers contains the HTTP handlers for the booking wizard API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/barberly/booking-engine/internal/wizard"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeWizardError maps domain errors onto HTTP statuses. Validation and
// gating problems are client errors; upstream failures are 502 so callers
// can distinguish "fix your input" from "try again".
func writeWizardError(w http.ResponseWriter, err error) {
	var (
		validationErr *wizard.ValidationError
		stepErr       *wizard.StepIncompleteError
		upstreamErr   *wizard.UpstreamError
	)
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &stepErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &validationErr),
		errors.Is(err, wizard.ErrUnknownFlow),
		errors.Is(err, wizard.ErrSlotsNotLoaded),
		errors.Is(err, wizard.ErrTimeNotAvailable):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrAlreadyConfirmed),
		errors.Is(err, wizard.ErrVersionConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &upstreamErr):
		writeError(w, http.StatusBadGateway, "booking service is temporarily unavailable, please try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
