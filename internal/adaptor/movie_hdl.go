package adaptor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"
)

type MovieHandler struct {
	service usecase.MovieService
}

func NewMovieHandler(service usecase.MovieService) *MovieHandler {
	return &MovieHandler{service: service}
}

// GET /api/movies lists popular movies by default; ?q= switches to search
// and any of ?genre=, ?year=, ?sort_by= switches to discovery.
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := utils.ParseInt(params.Get("page"), 1)

	var (
		movies []entity.Movie
		err    error
	)
	switch {
	case params.Get("q") != "":
		movies, err = h.service.SearchMovies(r.Context(), params.Get("q"), page)
	case params.Get("genre") != "" || params.Get("year") != "" || params.Get("sort_by") != "":
		genreID := utils.ParseInt(params.Get("genre"), 0)
		year := utils.ParseInt(params.Get("year"), 0)
		movies, err = h.service.GetMovies(r.Context(), genreID, year, page, params.Get("sort_by"))
	default:
		movies, err = h.service.GetPopularMovies(r.Context())
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Movies retrieved", movies)
}

// GET /api/genres
func (h *MovieHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.GetGenres(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Genres retrieved", genres)
}

// GET /api/movies/{id}
func (h *MovieHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	movie, err := h.service.GetMovieByID(r.Context(), movieID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved", movie)
}

// GET /api/movies/by-date/{date}
func (h *MovieHandler) GetByScreeningDate(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	movies, err := h.service.GetMoviesByScreeningDate(r.Context(), date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Movies retrieved", movies)
}
