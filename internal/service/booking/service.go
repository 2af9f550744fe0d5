package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ivklim/airport-api/internal/domain"
	"github.com/ivklim/airport-api/internal/kafka"
	"github.com/ivklim/airport-api/internal/metrics"
	"github.com/ivklim/airport-api/internal/repository"
)

// UseCase is what the HTTP layer sees.
type UseCase interface {
	PlaceOrder(ctx context.Context, userID int64, items []domain.SeatSelection) (*domain.OrderWithTickets, error)
}

// FlightStore resolves the seat grid a selection is validated against.
type FlightStore interface {
	SeatGrid(ctx context.Context, flightID int64) (*domain.SeatGrid, error)
}

// OrderStore persists orders. Create must be atomic: all tickets or none,
// with the (flight, row, seat) uniqueness enforced at commit time so that
// of two concurrent orders for the same seat exactly one succeeds.
type OrderStore interface {
	SeatTaken(ctx context.Context, flightID int64, row, seat int) (bool, error)
	Create(ctx context.Context, userID int64, items []domain.SeatSelection) (*domain.OrderWithTickets, error)
}

type Cache interface {
	InvalidateFlight(ctx context.Context, flightID int64) error
}

type Producer interface {
	Publish(ctx context.Context, key string, payload any) error
}

type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, current int64, retryAfter time.Duration, err error)
}

type Service struct {
	flights  FlightStore
	orders   OrderStore
	cache    Cache
	producer Producer
	limiter  Limiter
	metrics  *metrics.Metrics
}

func New(
	flights FlightStore,
	orders OrderStore,
	cache Cache,
	producer Producer,
	limiter Limiter,
	m *metrics.Metrics,
) *Service {
	return &Service{
		flights:  flights,
		orders:   orders,
		cache:    cache,
		producer: producer,
		limiter:  limiter,
		metrics:  m,
	}
}

// PlaceOrder validates every seat selection in request order and commits one
// order with all tickets, or nothing. Validation per item: the flight must
// exist, the coordinate must lie on the airplane's grid, and the seat must be
// free. The advisory SeatTaken check reports most conflicts before the
// transaction; the unique index decides the rest, so a concurrent duplicate
// still comes back as ErrSeatTaken.
func (s *Service) PlaceOrder(
	ctx context.Context,
	userID int64,
	items []domain.SeatSelection,
) (*domain.OrderWithTickets, error) {
	const op = "service.booking.PlaceOrder"

	if userID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoIdentity)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyOrder)
	}

	if s.limiter != nil {
		ok, _, retry, err := s.limiter.Allow(ctx, "user:"+strconv.FormatInt(userID, 10))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w, retry in %s", op, ErrRateLimited, retry)
		}
	}

	grids := make(map[int64]*domain.SeatGrid, 1)
	requested := make(map[domain.SeatSelection]struct{}, len(items))

	for _, it := range items {
		grid, ok := grids[it.FlightID]
		if !ok {
			g, err := s.flights.SeatGrid(ctx, it.FlightID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, fmt.Errorf("%s: flight %d: %w", op, it.FlightID, ErrFlightNotFound)
				}

				return nil, fmt.Errorf("%s: %w", op, err)
			}

			grids[it.FlightID] = g
			grid = g
		}

		if !grid.Contains(it.Row, it.Seat) {
			return nil, fmt.Errorf("%s: row %d seat %d: %w", op, it.Row, it.Seat, ErrSeatOutOfRange)
		}

		if _, dup := requested[it]; dup {
			return nil, fmt.Errorf("%s: row %d seat %d: %w", op, it.Row, it.Seat, ErrSeatTaken)
		}
		requested[it] = struct{}{}

		taken, err := s.orders.SeatTaken(ctx, it.FlightID, it.Row, it.Seat)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if taken {
			s.countConflict()
			return nil, fmt.Errorf("%s: row %d seat %d: %w", op, it.Row, it.Seat, ErrSeatTaken)
		}
	}

	out, err := s.orders.Create(ctx, userID, items)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the race: a concurrent order committed the same seat
			// between the advisory check and our commit.
			s.countConflict()
			return nil, fmt.Errorf("%s: %w", op, ErrSeatTaken)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.metrics != nil {
		s.metrics.OrdersPlaced.Inc()
		s.metrics.TicketsSold.Add(float64(len(out.Tickets)))
	}

	if s.cache != nil {
		for flightID := range grids {
			_ = s.cache.InvalidateFlight(ctx, flightID)
		}
	}

	s.publishCreated(ctx, out)

	return out, nil
}

func (s *Service) countConflict() {
	if s.metrics != nil {
		s.metrics.SeatConflicts.Inc()
	}
}

func (s *Service) publishCreated(ctx context.Context, o *domain.OrderWithTickets) {
	if s.producer == nil {
		return
	}

	ev := kafka.OrderEvent{
		Type:      "order_created",
		OrderID:   o.ID,
		UserID:    o.UserID,
		CreatedAt: o.CreatedAt,
	}
	for _, t := range o.Tickets {
		ev.Tickets = append(ev.Tickets, kafka.SeatEvent{
			FlightID: t.FlightID,
			Row:      t.Row,
			Seat:     t.Seat,
		})
	}

	_ = s.producer.Publish(ctx, strconv.FormatInt(o.ID, 10), ev)
}

var _ UseCase = (*Service)(nil)
