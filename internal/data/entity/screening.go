package entity

// Screening is one scheduled showing of a movie. Screenings are provisioned
// lazily per movie and regenerated wholesale when every existing one lies in
// the past; they are never patched in place.
//
// Invariant: 0 <= AvailableSeats <= TotalSeats. The only code allowed to
// change AvailableSeats after provisioning is the booking transaction.
type Screening struct {
	ID             string  `json:"id"`
	MovieID        string  `json:"movieId"`
	Date           string  `json:"date"` // calendar day, YYYY-MM-DD
	Time           string  `json:"time"` // HH:MM
	Hall           string  `json:"hall"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"availableSeats"`
	TotalSeats     int     `json:"totalSeats"`
}
