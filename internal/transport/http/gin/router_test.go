package httpgin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivklim/airport-api/internal/domain"
	"github.com/ivklim/airport-api/internal/service"
	"github.com/ivklim/airport-api/internal/service/auth"
	"github.com/ivklim/airport-api/internal/service/booking"
	"github.com/ivklim/airport-api/internal/service/catalog"
	"github.com/ivklim/airport-api/internal/service/query"
)

const (
	userToken  = "user-token"
	staffToken = "staff-token"
)

type stubAuth struct {
	auth.UseCase
}

func (s *stubAuth) ParseToken(token string) (*auth.Claims, error) {
	switch token {
	case userToken:
		return &auth.Claims{UserID: 1}, nil
	case staffToken:
		return &auth.Claims{UserID: 2, IsStaff: true}, nil
	}
	return nil, auth.ErrInvalidToken
}

func (s *stubAuth) Register(_ context.Context, email, _ string) (*domain.User, error) {
	if email == "dup@example.com" {
		return nil, fmt.Errorf("service.auth.Register: %w", auth.ErrEmailTaken)
	}
	return &domain.User{ID: 10, Email: email}, nil
}

type stubBooking struct {
	err   error
	order *domain.OrderWithTickets
}

func (s *stubBooking) PlaceOrder(_ context.Context, userID int64, items []domain.SeatSelection) (*domain.OrderWithTickets, error) {
	if s.err != nil {
		return nil, fmt.Errorf("service.booking.PlaceOrder: %w", s.err)
	}
	if s.order != nil {
		return s.order, nil
	}
	out := &domain.OrderWithTickets{Order: domain.Order{ID: 42, UserID: userID, CreatedAt: time.Now()}}
	for i, it := range items {
		out.Tickets = append(out.Tickets, domain.Ticket{
			ID: int64(i + 1), Row: it.Row, Seat: it.Seat, FlightID: it.FlightID, OrderID: 42,
		})
	}
	return out, nil
}

type stubQuery struct {
	query.UseCase
	flight *domain.FlightDetail
}

func (s *stubQuery) GetFlight(_ context.Context, id int64) (*domain.FlightDetail, error) {
	if s.flight == nil || s.flight.ID != id {
		return nil, fmt.Errorf("service.query.GetFlight: %w", query.ErrNotFound)
	}
	return s.flight, nil
}

type stubCatalog struct {
	catalog.UseCase
}

func (s *stubCatalog) CreateRoute(_ context.Context, in catalog.RouteInput) (*domain.Route, error) {
	if in.SourceID == in.DestinationID {
		return nil, fmt.Errorf("service.catalog.CreateRoute: %w", catalog.ErrSameAirport)
	}
	return &domain.Route{ID: 1, SourceID: in.SourceID, DestinationID: in.DestinationID, Distance: in.Distance}, nil
}

func newTestRouter(b booking.UseCase, q query.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(testWriter{}, nil))

	svcs := &service.Services{
		Auth:    &stubAuth{},
		Booking: b,
		Catalog: &stubCatalog{},
		Query:   q,
	}
	return NewRouter(svcs, nil, "", logger)
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(&stubBooking{}, &stubQuery{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/flights/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/flights/1", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffGate(t *testing.T) {
	r := newTestRouter(&stubBooking{}, &stubQuery{})
	body := AirportRequest{Name: "Gardermoen", ClosestBigCity: "Oslo"}

	w := doJSON(t, r, http.MethodPost, "/api/v1/airports", userToken, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateOrder(t *testing.T) {
	body := CreateOrderRequest{Tickets: []TicketInput{{FlightID: 7, Row: 1, Seat: 1}}}

	t.Run("created", func(t *testing.T) {
		r := newTestRouter(&stubBooking{}, &stubQuery{})

		w := doJSON(t, r, http.MethodPost, "/api/v1/orders", userToken, body)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp OrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(42), resp.ID)
		require.Len(t, resp.Tickets, 1)
		assert.Equal(t, int64(7), resp.Tickets[0].FlightID)
	})

	t.Run("seat conflict is 409", func(t *testing.T) {
		r := newTestRouter(&stubBooking{err: booking.ErrSeatTaken}, &stubQuery{})

		w := doJSON(t, r, http.MethodPost, "/api/v1/orders", userToken, body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("out of range is 400", func(t *testing.T) {
		r := newTestRouter(&stubBooking{err: booking.ErrSeatOutOfRange}, &stubQuery{})

		w := doJSON(t, r, http.MethodPost, "/api/v1/orders", userToken, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown flight is 400", func(t *testing.T) {
		r := newTestRouter(&stubBooking{err: booking.ErrFlightNotFound}, &stubQuery{})

		w := doJSON(t, r, http.MethodPost, "/api/v1/orders", userToken, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rate limited is 429 with retry-after", func(t *testing.T) {
		r := newTestRouter(&stubBooking{err: booking.ErrRateLimited}, &stubQuery{})

		w := doJSON(t, r, http.MethodPost, "/api/v1/orders", userToken, body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
	})

	t.Run("empty payload is 400", func(t *testing.T) {
		r := newTestRouter(&stubBooking{}, &stubQuery{})

		w := doJSON(t, r, http.MethodPost, "/api/v1/orders", userToken, CreateOrderRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unexpected failure is 500", func(t *testing.T) {
		r := newTestRouter(&stubBooking{err: errors.New("pool exhausted")}, &stubQuery{})

		w := doJSON(t, r, http.MethodPost, "/api/v1/orders", userToken, body)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetFlight(t *testing.T) {
	q := &stubQuery{flight: &domain.FlightDetail{
		Flight:          domain.Flight{ID: 7},
		AvailablePlaces: 40,
	}}
	r := newTestRouter(&stubBooking{}, q)

	w := doJSON(t, r, http.MethodGet, "/api/v1/flights/7", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp FlightDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 40, resp.AvailablePlaces)

	w = doJSON(t, r, http.MethodGet, "/api/v1/flights/999", userToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/flights/abc", userToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRouteAsStaff(t *testing.T) {
	r := newTestRouter(&stubBooking{}, &stubQuery{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/routes", staffToken, RouteRequest{
		SourceID: 1, DestinationID: 2, Distance: 500,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/routes", staffToken, RouteRequest{
		SourceID: 1, DestinationID: 1, Distance: 500,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterConflict(t *testing.T) {
	r := newTestRouter(&stubBooking{}, &stubQuery{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/register", "", RegisterRequest{
		Email: "dup@example.com", Password: "longenoughpassword",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(&stubBooking{}, &stubQuery{})

	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
