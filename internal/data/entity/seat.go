package entity

// Seat is one bookable position in a screening's seat map. Seats live in a
// per-screening sub-collection and are never shared between screenings.
// Availability flips to false only inside the booking transaction.
// Selection state is a UI concern and is not persisted here.
type Seat struct {
	ID          string `json:"id"` // row letter + seat number, e.g. "C7"
	Row         string `json:"row"`
	Number      int    `json:"number"`
	IsAvailable bool   `json:"isAvailable"`
}
