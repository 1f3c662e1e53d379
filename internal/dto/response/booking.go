package response

import (
	"time"

	"cinema-tickets/internal/data/entity"
)

type BookingResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ScreeningID   string    `json:"screeningId"`
	MovieID       string    `json:"movieId"`
	MovieTitle    string    `json:"movieTitle"`
	MovieImageURL string    `json:"movieImageUrl,omitempty"`
	ScreeningDate string    `json:"screeningDate"`
	ScreeningTime string    `json:"screeningTime"`
	Seats         []string  `json:"seats"`
	TotalPrice    float64   `json:"totalPrice"`
	BookingDate   time.Time `json:"bookingDate"`
	Status        string    `json:"status"`
}

func BookingFromEntity(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            booking.ID,
		UserID:        booking.UserID,
		ScreeningID:   booking.ScreeningID,
		MovieID:       booking.MovieID,
		MovieTitle:    booking.MovieTitle,
		MovieImageURL: booking.MovieImageURL,
		ScreeningDate: booking.ScreeningDate,
		ScreeningTime: booking.ScreeningTime,
		Seats:         booking.Seats,
		TotalPrice:    booking.TotalPrice,
		BookingDate:   booking.BookingDate,
		Status:        string(booking.Status),
	}
}

func BookingsFromEntities(bookings []entity.Booking) []BookingResponse {
	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, BookingFromEntity(&bookings[i]))
	}
	return responses
}
