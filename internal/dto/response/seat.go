package response

import "cinema-tickets/internal/data/entity"

type SeatResponse struct {
	ID          string `json:"id"`
	Row         string `json:"row"`
	Number      int    `json:"number"`
	IsAvailable bool   `json:"isAvailable"`
	IsSelected  bool   `json:"isSelected"`
}

func SeatsFromEntities(seats []entity.Seat) []SeatResponse {
	responses := make([]SeatResponse, 0, len(seats))
	for _, seat := range seats {
		responses = append(responses, SeatResponse{
			ID:          seat.ID,
			Row:         seat.Row,
			Number:      seat.Number,
			IsAvailable: seat.IsAvailable,
			IsSelected:  false,
		})
	}
	return responses
}

// SeatAvailabilityResponse answers a pre-booking availability check.
type SeatAvailabilityResponse struct {
	Available   bool     `json:"available"`
	Unavailable []string `json:"unavailable,omitempty"`
}
