package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Validation runs before any store access, so a zero-value service is enough
// to exercise the rejection paths.

func TestCreateRouteValidation(t *testing.T) {
	svc := &Service{}

	tests := []struct {
		name    string
		in      RouteInput
		wantErr error
	}{
		{"same airport", RouteInput{SourceID: 3, DestinationID: 3, Distance: 100}, ErrSameAirport},
		{"zero distance", RouteInput{SourceID: 1, DestinationID: 2, Distance: 0}, ErrBadDistance},
		{"negative distance", RouteInput{SourceID: 1, DestinationID: 2, Distance: -5}, ErrBadDistance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRoute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateFlightValidation(t *testing.T) {
	svc := &Service{}
	dep := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      FlightInput
		wantErr error
	}{
		{
			"arrival before departure",
			FlightInput{RouteID: 1, AirplaneID: 1, DepartureTime: dep, ArrivalTime: dep.Add(-time.Hour), CrewIDs: []int64{1}},
			ErrBadSchedule,
		},
		{
			"arrival equals departure",
			FlightInput{RouteID: 1, AirplaneID: 1, DepartureTime: dep, ArrivalTime: dep, CrewIDs: []int64{1}},
			ErrBadSchedule,
		},
		{
			"no crew",
			FlightInput{RouteID: 1, AirplaneID: 1, DepartureTime: dep, ArrivalTime: dep.Add(2 * time.Hour)},
			ErrCrewRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateFlight(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateAirplaneValidation(t *testing.T) {
	svc := &Service{}

	tests := []struct {
		name    string
		in      AirplaneInput
		wantErr error
	}{
		{"empty name", AirplaneInput{Rows: 10, SeatsInRow: 4, AirplaneTypeID: 1}, ErrNameRequired},
		{"zero rows", AirplaneInput{Name: "B738", Rows: 0, SeatsInRow: 4, AirplaneTypeID: 1}, ErrBadSeatGrid},
		{"zero seats", AirplaneInput{Name: "B738", Rows: 10, SeatsInRow: 0, AirplaneTypeID: 1}, ErrBadSeatGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAirplane(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateAirportValidation(t *testing.T) {
	svc := &Service{}

	_, err := svc.CreateAirport(context.Background(), AirportInput{Name: "  ", ClosestBigCity: "Oslo"})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestUploadAirplaneImageRejectsNonImage(t *testing.T) {
	svc := &Service{}

	_, err := svc.UploadAirplaneImage(context.Background(), 1, "notes.txt", []byte("just some text, not pixels"))
	assert.ErrorIs(t, err, ErrNotImage)
}
