package repository

import (
	"go.uber.org/zap"

	"cinema-tickets/pkg/docstore"
)

// Repository bundles the document-store repositories consumed by the
// service layer.
type Repository struct {
	Screening ScreeningRepository
	Seat      SeatRepository
	Booking   BookingRepository
}

func NewRepository(store docstore.Store, log *zap.Logger) *Repository {
	return &Repository{
		Screening: NewScreeningRepository(store, log),
		Seat:      NewSeatRepository(store, log),
		Booking:   NewBookingRepository(store, log),
	}
}
