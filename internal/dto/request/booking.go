package request

// CreateBookingRequest carries everything needed to reserve seats on a
// screening. Seats are seat ids like "A1".
type CreateBookingRequest struct {
	ScreeningID   string   `json:"screeningId" validate:"required"`
	MovieID       string   `json:"movieId" validate:"required"`
	MovieTitle    string   `json:"movieTitle" validate:"required"`
	MovieImageURL string   `json:"movieImageUrl"`
	Seats         []string `json:"seats" validate:"required,min=1,dive,required"`
}

// CheckSeatsRequest asks whether a set of seats on a screening is still
// open. The screening id travels in the URL.
type CheckSeatsRequest struct {
	Seats []string `json:"seats" validate:"required,min=1,dive,required"`
}
