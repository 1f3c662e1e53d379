package entity

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a reservation of a specific seat set for a specific screening by
// a specific user. Movie title/image and the screening date/time are
// denormalized onto the booking so history views render without extra reads.
//
// Bookings are created only by the booking transaction; the sole permitted
// mutation afterwards is flipping Status to cancelled. Cancelling does not
// restore screening capacity or seat availability.
type Booking struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	ScreeningID   string        `json:"screeningId"`
	MovieID       string        `json:"movieId"`
	MovieTitle    string        `json:"movieTitle"`
	MovieImageURL string        `json:"movieImageUrl,omitempty"`
	ScreeningDate string        `json:"screeningDate"`
	ScreeningTime string        `json:"screeningTime"`
	Seats         []string      `json:"seats"`
	TotalPrice    float64       `json:"totalPrice"`
	BookingDate   time.Time     `json:"bookingDate"`
	Status        BookingStatus `json:"status"`
}
