// Package seatmap generates the seat layout for a screening.
//
// The layout is a pure function of the screening id: the id is folded into a
// 32-bit seed and fed through a linear-congruential generator, so a lost
// seats sub-collection can be regenerated identically on any process without
// a persisted layout template.
package seatmap

import (
	"strconv"

	"cinema-tickets/internal/data/entity"
)

const seatsPerRow = 12

var rowLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// Generate returns the seat layout for screeningID: 8 rows x 12 seats, with
// roughly 70% of seats initially available. Two calls with the same id
// always produce the same sequence.
func Generate(screeningID string) []entity.Seat {
	draw := lcg(seed(screeningID))
	seats := make([]entity.Seat, 0, len(rowLabels)*seatsPerRow)
	for _, row := range rowLabels {
		for n := 1; n <= seatsPerRow; n++ {
			seats = append(seats, entity.Seat{
				ID:          row + strconv.Itoa(n),
				Row:         row,
				Number:      n,
				IsAvailable: draw() > 0.3,
			})
		}
	}
	return seats
}

// seed folds the id through a multiply-add hash, wraps it to a signed 32-bit
// value and takes the absolute value.
func seed(id string) uint32 {
	var h int32
	for _, c := range id {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return uint32(v)
}

// lcg returns a generator of pseudo-random draws in [0, 1), using the
// classic numerical-recipes constants on 32-bit state.
func lcg(state uint32) func() float64 {
	return func() float64 {
		state = state*1664525 + 1013904223
		return float64(state) / (1 << 32)
	}
}
