package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ivklim/airport-api/internal/domain"
	"github.com/ivklim/airport-api/internal/repository"
	"github.com/ivklim/airport-api/internal/repository/postgres"
	redisrepo "github.com/ivklim/airport-api/internal/repository/redis"
)

// ErrNotFound is returned when the requested entity does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("not found")

// UseCase is the read surface: catalog browsing, flight search and a user's
// own orders.
type UseCase interface {
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	ListAirports(ctx context.Context, p Page) ([]domain.Airport, error)
	GetAirplaneType(ctx context.Context, id int64) (*domain.AirplaneType, error)
	ListAirplaneTypes(ctx context.Context, p Page) ([]domain.AirplaneType, error)
	GetCrew(ctx context.Context, id int64) (*domain.Crew, error)
	ListCrews(ctx context.Context, p Page) ([]domain.Crew, error)

	GetRoute(ctx context.Context, id int64) (*domain.RouteDetail, error)
	ListRoutes(ctx context.Context, f postgres.RouteFilter, p Page) ([]domain.RouteDetail, error)
	GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error)
	ListAirplanes(ctx context.Context, typeIDs []int64, p Page) ([]domain.Airplane, error)

	GetFlight(ctx context.Context, id int64) (*domain.FlightDetail, error)
	ListFlights(ctx context.Context, f postgres.FlightFilter, p Page) ([]domain.FlightDetail, error)

	ListOrders(ctx context.Context, userID int64, p Page) ([]domain.OrderWithTickets, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.OrderWithTickets, error)
}

type CatalogReader interface {
	GetAirport(ctx context.Context, id int64) (*domain.Airport, error)
	ListAirports(ctx context.Context, limit, offset int) ([]domain.Airport, error)
	GetAirplaneType(ctx context.Context, id int64) (*domain.AirplaneType, error)
	ListAirplaneTypes(ctx context.Context, limit, offset int) ([]domain.AirplaneType, error)
	GetCrew(ctx context.Context, id int64) (*domain.Crew, error)
	ListCrews(ctx context.Context, limit, offset int) ([]domain.Crew, error)
}

type FleetReader interface {
	GetRoute(ctx context.Context, id int64) (*domain.RouteDetail, error)
	ListRoutes(ctx context.Context, f postgres.RouteFilter, limit, offset int) ([]domain.RouteDetail, error)
	GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error)
	ListAirplanes(ctx context.Context, typeIDs []int64, limit, offset int) ([]domain.Airplane, error)
}

type FlightReader interface {
	Get(ctx context.Context, id int64) (*domain.FlightDetail, error)
	List(ctx context.Context, f postgres.FlightFilter, limit, offset int) ([]domain.FlightDetail, error)
}

type OrderReader interface {
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.OrderWithTickets, error)
	GetByUser(ctx context.Context, userID, orderID int64) (*domain.OrderWithTickets, error)
}

// Page is a normalized limit/offset pair. Zero values fall back to the
// configured default; limits are clamped to the configured maximum.
type Page struct {
	Limit  int
	Offset int
}

type Config struct {
	DefaultLimit int
	MaxLimit     int
	FlightTTL    time.Duration
}

type Service struct {
	catalog CatalogReader
	fleet   FleetReader
	flights FlightReader
	orders  OrderReader
	cache   *redisrepo.Cache
	cfg     Config
}

func New(
	catalog CatalogReader,
	fleet FleetReader,
	flights FlightReader,
	orders OrderReader,
	cache *redisrepo.Cache,
	cfg Config,
) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.FlightTTL <= 0 {
		cfg.FlightTTL = 30 * time.Second
	}

	return &Service{
		catalog: catalog,
		fleet:   fleet,
		flights: flights,
		orders:  orders,
		cache:   cache,
		cfg:     cfg,
	}
}

func (s *Service) page(p Page) (limit, offset int) {
	limit = p.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	offset = p.Offset
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

func (s *Service) GetAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	const op = "service.query.GetAirport"

	a, err := s.catalog.GetAirport(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return a, nil
}

func (s *Service) ListAirports(ctx context.Context, p Page) ([]domain.Airport, error) {
	const op = "service.query.ListAirports"

	limit, offset := s.page(p)
	out, err := s.catalog.ListAirports(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) GetAirplaneType(ctx context.Context, id int64) (*domain.AirplaneType, error) {
	const op = "service.query.GetAirplaneType"

	t, err := s.catalog.GetAirplaneType(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return t, nil
}

func (s *Service) ListAirplaneTypes(ctx context.Context, p Page) ([]domain.AirplaneType, error) {
	const op = "service.query.ListAirplaneTypes"

	limit, offset := s.page(p)
	out, err := s.catalog.ListAirplaneTypes(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) GetCrew(ctx context.Context, id int64) (*domain.Crew, error) {
	const op = "service.query.GetCrew"

	c, err := s.catalog.GetCrew(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return c, nil
}

func (s *Service) ListCrews(ctx context.Context, p Page) ([]domain.Crew, error) {
	const op = "service.query.ListCrews"

	limit, offset := s.page(p)
	out, err := s.catalog.ListCrews(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) GetRoute(ctx context.Context, id int64) (*domain.RouteDetail, error) {
	const op = "service.query.GetRoute"

	rt, err := s.fleet.GetRoute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return rt, nil
}

func (s *Service) ListRoutes(ctx context.Context, f postgres.RouteFilter, p Page) ([]domain.RouteDetail, error) {
	const op = "service.query.ListRoutes"

	limit, offset := s.page(p)
	out, err := s.fleet.ListRoutes(ctx, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	const op = "service.query.GetAirplane"

	a, err := s.fleet.GetAirplane(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return a, nil
}

func (s *Service) ListAirplanes(ctx context.Context, typeIDs []int64, p Page) ([]domain.Airplane, error) {
	const op = "service.query.ListAirplanes"

	limit, offset := s.page(p)
	out, err := s.fleet.ListAirplanes(ctx, typeIDs, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// GetFlight serves the flight read model through the cache; concurrent misses
// for the same flight collapse into one database load.
func (s *Service) GetFlight(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	const op = "service.query.GetFlight"

	if s.cache == nil {
		fd, err := s.flights.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, mapErr(err))
		}

		return fd, nil
	}

	fd, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyFlightDetail(id), s.cfg.FlightTTL,
		func(ctx context.Context) (*domain.FlightDetail, error) {
			return s.flights.Get(ctx, id)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return fd, nil
}

func (s *Service) ListFlights(ctx context.Context, f postgres.FlightFilter, p Page) ([]domain.FlightDetail, error) {
	const op = "service.query.ListFlights"

	limit, offset := s.page(p)
	out, err := s.flights.List(ctx, f, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) ListOrders(ctx context.Context, userID int64, p Page) ([]domain.OrderWithTickets, error) {
	const op = "service.query.ListOrders"

	limit, offset := s.page(p)
	out, err := s.orders.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// GetOrder returns the order only when it belongs to userID; anything else is
// ErrNotFound so callers cannot probe for other users' order IDs.
func (s *Service) GetOrder(ctx context.Context, userID, orderID int64) (*domain.OrderWithTickets, error) {
	const op = "service.query.GetOrder"

	o, err := s.orders.GetByUser(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return o, nil
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}

	return err
}

var _ UseCase = (*Service)(nil)
