package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatGridContains(t *testing.T) {
	g := SeatGrid{FlightID: 1, Rows: 10, SeatsInRow: 4}

	tests := []struct {
		name string
		row  int
		seat int
		want bool
	}{
		{"first seat", 1, 1, true},
		{"last seat", 10, 4, true},
		{"middle", 5, 2, true},
		{"row zero", 0, 1, false},
		{"seat zero", 1, 0, false},
		{"row past last", 11, 1, false},
		{"seat past last", 10, 5, false},
		{"negative", -1, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Contains(tt.row, tt.seat))
		})
	}
}

func TestCrewFullName(t *testing.T) {
	c := Crew{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", c.FullName())
}
