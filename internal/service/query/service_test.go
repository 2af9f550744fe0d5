package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivklim/airport-api/internal/domain"
	"github.com/ivklim/airport-api/internal/repository"
	"github.com/ivklim/airport-api/internal/repository/postgres"
)

type fakeCatalog struct {
	CatalogReader
	gotLimit  int
	gotOffset int
}

func (f *fakeCatalog) ListAirports(_ context.Context, limit, offset int) ([]domain.Airport, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return nil, nil
}

type fakeOrders struct {
	orders map[int64]*domain.OrderWithTickets // keyed by order ID
}

func (f *fakeOrders) ListByUser(_ context.Context, userID int64, _, _ int) ([]domain.OrderWithTickets, error) {
	var out []domain.OrderWithTickets
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) GetByUser(_ context.Context, userID, orderID int64) (*domain.OrderWithTickets, error) {
	o, ok := f.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

type fakeFlights struct {
	detail *domain.FlightDetail
}

func (f *fakeFlights) Get(_ context.Context, id int64) (*domain.FlightDetail, error) {
	if f.detail == nil || f.detail.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeFlights) List(_ context.Context, _ postgres.FlightFilter, _, _ int) ([]domain.FlightDetail, error) {
	return nil, nil
}

func TestPageDefaultsAndClamp(t *testing.T) {
	catalog := &fakeCatalog{}
	svc := New(catalog, nil, nil, nil, nil, Config{DefaultLimit: 20, MaxLimit: 100})

	tests := []struct {
		name       string
		page       Page
		wantLimit  int
		wantOffset int
	}{
		{"zero value gets default", Page{}, 20, 0},
		{"explicit limit kept", Page{Limit: 5, Offset: 10}, 5, 10},
		{"limit clamped to max", Page{Limit: 5000}, 100, 0},
		{"negative offset reset", Page{Limit: 5, Offset: -1}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListAirports(context.Background(), tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, catalog.gotLimit)
			assert.Equal(t, tt.wantOffset, catalog.gotOffset)
		})
	}
}

func TestGetOrderOwnership(t *testing.T) {
	orders := &fakeOrders{orders: map[int64]*domain.OrderWithTickets{
		10: {Order: domain.Order{ID: 10, UserID: 1}},
	}}
	svc := New(nil, nil, nil, orders, nil, Config{})

	got, err := svc.GetOrder(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)

	// Another user's order must look exactly like a missing one.
	_, err = svc.GetOrder(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetOrder(context.Background(), 1, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetFlightWithoutCache(t *testing.T) {
	flights := &fakeFlights{detail: &domain.FlightDetail{
		Flight:          domain.Flight{ID: 7},
		AvailablePlaces: 40,
	}}
	svc := New(nil, nil, flights, nil, nil, Config{})

	got, err := svc.GetFlight(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 40, got.AvailablePlaces)

	_, err = svc.GetFlight(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNotFound)
}
