package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrScreeningNotFound = errors.New("screening not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrMovieNotFound     = errors.New("movie not found")
	ErrInsufficientSeats = errors.New("not enough seats available")
	ErrForbidden         = errors.New("access to this resource is forbidden")
)

// SeatUnavailableError reports the first requested seat that is already
// taken or does not exist.
type SeatUnavailableError struct {
	SeatID string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %s is not available", e.SeatID)
}

// UnavailableError signals that the backing store is degraded and the caller
// should back off. Message is safe to show to end users.
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string {
	return e.Message
}
