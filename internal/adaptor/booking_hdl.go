package adaptor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"
)

type BookingHandler struct {
	service usecase.BookingService
}

func NewBookingHandler(service usecase.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// POST /api/booking
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseCreated(w, "Booking created", response.BookingFromEntity(booking))
}

// POST /api/screenings/{id}/seats/check
func (h *BookingHandler) CheckSeats(w http.ResponseWriter, r *http.Request) {
	screeningID := chi.URLParam(r, "id")

	var req request.CheckSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if errs := utils.ValidateStruct(req); errs != nil {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	available, unavailable := h.service.CheckSeatsAvailability(r.Context(), screeningID, req.Seats)
	utils.ResponseSuccess(w, "Seats checked", response.SeatAvailabilityResponse{
		Available:   available,
		Unavailable: unavailable,
	})
}

// GET /api/user/bookings
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Bookings retrieved", response.BookingsFromEntities(bookings))
}

// GET /api/bookings/{id}
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}
	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.GetBookingByID(r.Context(), userID, bookingID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved", response.BookingFromEntity(booking))
}

// PUT /api/bookings/{id}/cancel
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}
	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.CancelBooking(r.Context(), userID, bookingID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", response.BookingFromEntity(booking))
}
