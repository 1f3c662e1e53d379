package adaptor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cinema-tickets/internal/dto/response"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"
)

type ScreeningHandler struct {
	service usecase.ScreeningService
}

func NewScreeningHandler(service usecase.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{service: service}
}

// GET /api/movies/{id}/screenings
func (h *ScreeningHandler) GetForMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	screenings := h.service.EnsureScreenings(r.Context(), movieID)
	utils.ResponseSuccess(w, "Screenings retrieved", screenings)
}

// GET /api/screenings/{id}
func (h *ScreeningHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")

	screening, err := h.service.GetScreeningByID(r.Context(), screeningID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Screening retrieved", screening)
}

// GET /api/screenings/{id}/seats
func (h *ScreeningHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")

	seats, err := h.service.GetSeatsForScreening(r.Context(), screeningID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Seats retrieved", response.SeatsFromEntities(seats))
}
