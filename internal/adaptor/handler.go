package adaptor

import (
	"errors"
	"net/http"

	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"
)

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error) {
	var seatErr *usecase.SeatUnavailableError
	if errors.As(err, &seatErr) {
		utils.ResponseConflict(w, seatErr.Error())
		return
	}

	var unavailableErr *usecase.UnavailableError
	if errors.As(err, &unavailableErr) {
		utils.ResponseServiceUnavailable(w, unavailableErr.Message)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrScreeningNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrMovieNotFound):
		utils.ResponseNotFound(w, err.Error())
	case errors.Is(err, usecase.ErrInsufficientSeats):
		utils.ResponseConflict(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		utils.ResponseForbidden(w, err.Error())
	default:
		utils.ResponseInternalError(w, "Something went wrong. Please try again.")
	}
}
