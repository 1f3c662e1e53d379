package wire

import (
	"github.com/go-chi/chi/v5"

	"cinema-tickets/internal/adaptor"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/middleware"
)

func BookingRoutes(router chi.Router, service *usecase.Service, jwtSecret string) {
	handler := adaptor.NewBookingHandler(service.Booking)

	// Availability checks are public; everything else requires identity.
	router.Post("/api/screenings/{id}/seats/check", handler.CheckSeats)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))

		r.Post("/api/booking", handler.Create)
		r.Get("/api/user/bookings", handler.GetUserBookings)
		r.Get("/api/bookings/{id}", handler.GetByID)
		r.Put("/api/bookings/{id}/cancel", handler.Cancel)
	})
}
