package wire

import (
	"github.com/go-chi/chi/v5"

	"cinema-tickets/internal/adaptor"
	"cinema-tickets/internal/usecase"
)

func MovieRoutes(router chi.Router, service *usecase.Service) {
	handler := adaptor.NewMovieHandler(service.Movie)

	router.Route("/api/movies", func(r chi.Router) {
		r.Get("/", handler.GetMovies)
		r.Get("/by-date/{date}", handler.GetByScreeningDate)
		r.Get("/{id}", handler.GetByID)
	})

	router.Get("/api/genres", handler.GetGenres)
}
