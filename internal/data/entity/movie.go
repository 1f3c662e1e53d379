package entity

// Movie is sourced from the external catalog API and is read-only to this
// service. Rating is on a 0-5 scale, derived by halving the catalog's 0-10
// vote average.
type Movie struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"` // "2h 15min", or "N/A" when unknown
	Genre       string `json:"genre"`
	ImageURL    string `json:"imageUrl"`
	Rating      int    `json:"rating"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
