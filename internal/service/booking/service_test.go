package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivklim/airport-api/internal/domain"
	"github.com/ivklim/airport-api/internal/repository"
)

type fakeFlights struct {
	grids map[int64]domain.SeatGrid
}

func (f *fakeFlights) SeatGrid(_ context.Context, flightID int64) (*domain.SeatGrid, error) {
	g, ok := f.grids[flightID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return &g, nil
}

type fakeOrders struct {
	taken       map[domain.SeatSelection]bool
	createErr   error
	createCalls int
}

func (f *fakeOrders) SeatTaken(_ context.Context, flightID int64, row, seat int) (bool, error) {
	return f.taken[domain.SeatSelection{FlightID: flightID, Row: row, Seat: seat}], nil
}

func (f *fakeOrders) Create(_ context.Context, userID int64, items []domain.SeatSelection) (*domain.OrderWithTickets, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}

	out := &domain.OrderWithTickets{
		Order: domain.Order{ID: 42, UserID: userID, CreatedAt: time.Now()},
	}
	for i, it := range items {
		out.Tickets = append(out.Tickets, domain.Ticket{
			ID:       int64(i + 1),
			Row:      it.Row,
			Seat:     it.Seat,
			FlightID: it.FlightID,
			OrderID:  out.ID,
		})
	}

	return out, nil
}

type fakeCache struct {
	invalidated []int64
}

func (f *fakeCache) InvalidateFlight(_ context.Context, flightID int64) error {
	f.invalidated = append(f.invalidated, flightID)
	return nil
}

type fakeProducer struct {
	published []any
}

func (f *fakeProducer) Publish(_ context.Context, _ string, payload any) error {
	f.published = append(f.published, payload)
	return nil
}

type fakeLimiter struct {
	allowed bool
}

func (f *fakeLimiter) Allow(_ context.Context, _ string) (bool, int64, time.Duration, error) {
	return f.allowed, 0, 5 * time.Second, nil
}

func newTestService(flights *fakeFlights, orders *fakeOrders) (*Service, *fakeCache, *fakeProducer) {
	cache := &fakeCache{}
	producer := &fakeProducer{}
	svc := New(flights, orders, cache, producer, &fakeLimiter{allowed: true}, nil)

	return svc, cache, producer
}

func TestPlaceOrderSuccess(t *testing.T) {
	flights := &fakeFlights{grids: map[int64]domain.SeatGrid{
		7: {FlightID: 7, Rows: 10, SeatsInRow: 4},
	}}
	orders := &fakeOrders{taken: map[domain.SeatSelection]bool{}}
	svc, cache, producer := newTestService(flights, orders)

	got, err := svc.PlaceOrder(context.Background(), 1, []domain.SeatSelection{
		{FlightID: 7, Row: 1, Seat: 1},
		{FlightID: 7, Row: 10, Seat: 4},
	})
	require.NoError(t, err)
	require.Len(t, got.Tickets, 2)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, 1, orders.createCalls)
	assert.Equal(t, []int64{7}, cache.invalidated)
	assert.Len(t, producer.published, 1)
}

func TestPlaceOrderNoIdentity(t *testing.T) {
	svc, _, _ := newTestService(&fakeFlights{}, &fakeOrders{})

	_, err := svc.PlaceOrder(context.Background(), 0, []domain.SeatSelection{
		{FlightID: 7, Row: 1, Seat: 1},
	})
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestPlaceOrderEmpty(t *testing.T) {
	orders := &fakeOrders{}
	svc, _, _ := newTestService(&fakeFlights{}, orders)

	_, err := svc.PlaceOrder(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Zero(t, orders.createCalls)
}

func TestPlaceOrderUnknownFlight(t *testing.T) {
	orders := &fakeOrders{}
	svc, _, _ := newTestService(&fakeFlights{grids: map[int64]domain.SeatGrid{}}, orders)

	_, err := svc.PlaceOrder(context.Background(), 1, []domain.SeatSelection{
		{FlightID: 99, Row: 1, Seat: 1},
	})
	assert.ErrorIs(t, err, ErrFlightNotFound)
	assert.Zero(t, orders.createCalls)
}

func TestPlaceOrderSeatBounds(t *testing.T) {
	flights := &fakeFlights{grids: map[int64]domain.SeatGrid{
		7: {FlightID: 7, Rows: 10, SeatsInRow: 4},
	}}

	tests := []struct {
		name    string
		row     int
		seat    int
		wantErr bool
	}{
		{"first seat", 1, 1, false},
		{"last seat", 10, 4, false},
		{"row zero", 0, 1, true},
		{"seat zero", 1, 0, true},
		{"row past last", 11, 1, true},
		{"seat past last", 1, 5, true},
		{"negative row", -3, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &fakeOrders{taken: map[domain.SeatSelection]bool{}}
			svc, _, _ := newTestService(flights, orders)

			_, err := svc.PlaceOrder(context.Background(), 1, []domain.SeatSelection{
				{FlightID: 7, Row: tt.row, Seat: tt.seat},
			})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSeatOutOfRange)
				assert.Zero(t, orders.createCalls)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlaceOrderDuplicateInRequest(t *testing.T) {
	flights := &fakeFlights{grids: map[int64]domain.SeatGrid{
		7: {FlightID: 7, Rows: 10, SeatsInRow: 4},
	}}
	orders := &fakeOrders{taken: map[domain.SeatSelection]bool{}}
	svc, _, _ := newTestService(flights, orders)

	_, err := svc.PlaceOrder(context.Background(), 1, []domain.SeatSelection{
		{FlightID: 7, Row: 2, Seat: 2},
		{FlightID: 7, Row: 2, Seat: 2},
	})
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Zero(t, orders.createCalls)
}

func TestPlaceOrderSeatAlreadyTaken(t *testing.T) {
	flights := &fakeFlights{grids: map[int64]domain.SeatGrid{
		7: {FlightID: 7, Rows: 10, SeatsInRow: 4},
	}}
	orders := &fakeOrders{taken: map[domain.SeatSelection]bool{
		{FlightID: 7, Row: 3, Seat: 3}: true,
	}}
	svc, _, _ := newTestService(flights, orders)

	_, err := svc.PlaceOrder(context.Background(), 1, []domain.SeatSelection{
		{FlightID: 7, Row: 1, Seat: 1},
		{FlightID: 7, Row: 3, Seat: 3},
	})
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Zero(t, orders.createCalls, "nothing may be committed when any selection fails")
}

func TestPlaceOrderConflictOnCommit(t *testing.T) {
	flights := &fakeFlights{grids: map[int64]domain.SeatGrid{
		7: {FlightID: 7, Rows: 10, SeatsInRow: 4},
	}}
	orders := &fakeOrders{
		taken:     map[domain.SeatSelection]bool{},
		createErr: repository.ErrConflict,
	}
	svc, cache, producer := newTestService(flights, orders)

	_, err := svc.PlaceOrder(context.Background(), 1, []domain.SeatSelection{
		{FlightID: 7, Row: 1, Seat: 1},
	})
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Empty(t, cache.invalidated)
	assert.Empty(t, producer.published)
}

func TestPlaceOrderRateLimited(t *testing.T) {
	orders := &fakeOrders{}
	svc := New(&fakeFlights{}, orders, nil, nil, &fakeLimiter{allowed: false}, nil)

	_, err := svc.PlaceOrder(context.Background(), 1, []domain.SeatSelection{
		{FlightID: 7, Row: 1, Seat: 1},
	})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Zero(t, orders.createCalls)
}

func TestPlaceOrderStoreError(t *testing.T) {
	flights := &fakeFlights{grids: map[int64]domain.SeatGrid{
		7: {FlightID: 7, Rows: 2, SeatsInRow: 2},
	}}
	boom := errors.New("connection reset")
	orders := &fakeOrders{taken: map[domain.SeatSelection]bool{}, createErr: boom}
	svc, _, _ := newTestService(flights, orders)

	_, err := svc.PlaceOrder(context.Background(), 1, []domain.SeatSelection{
		{FlightID: 7, Row: 1, Seat: 1},
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrSeatTaken)
}
