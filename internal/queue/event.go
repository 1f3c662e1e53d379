package queue

import "time"

const (
	QueueBookingCreated   = "booking.created"
	QueueBookingCancelled = "booking.cancelled"
)

// BookingCreatedEvent is published after a booking transaction commits.
type BookingCreatedEvent struct {
	BookingID   string    `json:"bookingId"`
	UserID      string    `json:"userId"`
	ScreeningID string    `json:"screeningId"`
	MovieID     string    `json:"movieId"`
	Seats       []string  `json:"seats"`
	TotalPrice  float64   `json:"totalPrice"`
	BookedAt    time.Time `json:"bookedAt"`
}

// BookingCancelledEvent is published after a booking is cancelled.
type BookingCancelledEvent struct {
	BookingID   string    `json:"bookingId"`
	UserID      string    `json:"userId"`
	CancelledAt time.Time `json:"cancelledAt"`
}
