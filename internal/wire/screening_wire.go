package wire

import (
	"github.com/go-chi/chi/v5"

	"cinema-tickets/internal/adaptor"
	"cinema-tickets/internal/usecase"
)

func ScreeningRoutes(router chi.Router, service *usecase.Service) {
	handler := adaptor.NewScreeningHandler(service.Screening)

	router.Get("/api/movies/{id}/screenings", handler.GetForMovie)
	router.Route("/api/screenings", func(r chi.Router) {
		r.Get("/{id}", handler.GetByID)
		r.Get("/{id}/seats", handler.GetSeats)
	})
}
