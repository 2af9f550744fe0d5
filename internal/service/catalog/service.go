package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ivklim/airport-api/internal/domain"
	"github.com/ivklim/airport-api/internal/repository"
	"github.com/ivklim/airport-api/internal/repository/postgres"
	"github.com/ivklim/airport-api/internal/uow"
)

// UseCase is the staff-facing write surface: reference data, fleet and
// schedule management.
type UseCase interface {
	CreateAirport(ctx context.Context, in AirportInput) (*domain.Airport, error)
	UpdateAirport(ctx context.Context, id int64, in AirportInput) (*domain.Airport, error)
	DeleteAirport(ctx context.Context, id int64) error

	CreateAirplaneType(ctx context.Context, name string) (*domain.AirplaneType, error)
	UpdateAirplaneType(ctx context.Context, id int64, name string) (*domain.AirplaneType, error)
	DeleteAirplaneType(ctx context.Context, id int64) error

	CreateCrew(ctx context.Context, in CrewInput) (*domain.Crew, error)
	UpdateCrew(ctx context.Context, id int64, in CrewInput) (*domain.Crew, error)
	DeleteCrew(ctx context.Context, id int64) error

	CreateRoute(ctx context.Context, in RouteInput) (*domain.Route, error)
	UpdateRoute(ctx context.Context, id int64, in RouteInput) (*domain.Route, error)
	DeleteRoute(ctx context.Context, id int64) error

	CreateAirplane(ctx context.Context, in AirplaneInput) (*domain.Airplane, error)
	UpdateAirplane(ctx context.Context, id int64, in AirplaneInput) (*domain.Airplane, error)
	DeleteAirplane(ctx context.Context, id int64) error
	UploadAirplaneImage(ctx context.Context, id int64, filename string, data []byte) (string, error)

	CreateFlight(ctx context.Context, in FlightInput) (*domain.Flight, error)
	UpdateFlight(ctx context.Context, id int64, in FlightInput) (*domain.Flight, error)
	DeleteFlight(ctx context.Context, id int64) error
}

type AirportInput struct {
	Name           string
	ClosestBigCity string
}

type CrewInput struct {
	FirstName string
	LastName  string
}

type RouteInput struct {
	SourceID      int64
	DestinationID int64
	Distance      int
}

type AirplaneInput struct {
	Name           string
	Rows           int
	SeatsInRow     int
	AirplaneTypeID int64
}

type FlightInput struct {
	RouteID       int64
	AirplaneID    int64
	DepartureTime time.Time
	ArrivalTime   time.Time
	CrewIDs       []int64
}

// FlightCache is notified after flight writes commit, so stale read models
// never outlive the data they were built from.
type FlightCache interface {
	InvalidateFlight(ctx context.Context, flightID int64) error
}

type Service struct {
	store *postgres.Store
	uow   *uow.UoW
	cache FlightCache
	media *FileStore
	log   *slog.Logger
}

func New(store *postgres.Store, u *uow.UoW, cache FlightCache, media *FileStore, log *slog.Logger) *Service {
	return &Service{store: store, uow: u, cache: cache, media: media, log: log}
}

func (s *Service) CreateAirport(ctx context.Context, in AirportInput) (*domain.Airport, error) {
	const op = "service.catalog.CreateAirport"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &domain.Airport{Name: strings.TrimSpace(in.Name), ClosestBigCity: strings.TrimSpace(in.ClosestBigCity)}
	if err := s.store.Catalog().CreateAirport(ctx, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *Service) UpdateAirport(ctx context.Context, id int64, in AirportInput) (*domain.Airport, error) {
	const op = "service.catalog.UpdateAirport"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &domain.Airport{ID: id, Name: strings.TrimSpace(in.Name), ClosestBigCity: strings.TrimSpace(in.ClosestBigCity)}
	if err := s.store.Catalog().UpdateAirport(ctx, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return a, nil
}

func (s *Service) DeleteAirport(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteAirport"

	if err := s.store.Catalog().DeleteAirport(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return nil
}

func (s *Service) CreateAirplaneType(ctx context.Context, name string) (*domain.AirplaneType, error) {
	const op = "service.catalog.CreateAirplaneType"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNameRequired)
	}

	t := &domain.AirplaneType{Name: name}
	if err := s.store.Catalog().CreateAirplaneType(ctx, t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Service) UpdateAirplaneType(ctx context.Context, id int64, name string) (*domain.AirplaneType, error) {
	const op = "service.catalog.UpdateAirplaneType"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNameRequired)
	}

	t := &domain.AirplaneType{ID: id, Name: name}
	if err := s.store.Catalog().UpdateAirplaneType(ctx, t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return t, nil
}

func (s *Service) DeleteAirplaneType(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteAirplaneType"

	if err := s.store.Catalog().DeleteAirplaneType(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return nil
}

func (s *Service) CreateCrew(ctx context.Context, in CrewInput) (*domain.Crew, error) {
	const op = "service.catalog.CreateCrew"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &domain.Crew{FirstName: strings.TrimSpace(in.FirstName), LastName: strings.TrimSpace(in.LastName)}
	if err := s.store.Catalog().CreateCrew(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *Service) UpdateCrew(ctx context.Context, id int64, in CrewInput) (*domain.Crew, error) {
	const op = "service.catalog.UpdateCrew"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &domain.Crew{ID: id, FirstName: strings.TrimSpace(in.FirstName), LastName: strings.TrimSpace(in.LastName)}
	if err := s.store.Catalog().UpdateCrew(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return c, nil
}

func (s *Service) DeleteCrew(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteCrew"

	if err := s.store.Catalog().DeleteCrew(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return nil
}

func (s *Service) CreateRoute(ctx context.Context, in RouteInput) (*domain.Route, error) {
	const op = "service.catalog.CreateRoute"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rt := &domain.Route{SourceID: in.SourceID, DestinationID: in.DestinationID, Distance: in.Distance}
	if err := s.store.Fleet().CreateRoute(ctx, rt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return rt, nil
}

func (s *Service) UpdateRoute(ctx context.Context, id int64, in RouteInput) (*domain.Route, error) {
	const op = "service.catalog.UpdateRoute"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rt := &domain.Route{ID: id, SourceID: in.SourceID, DestinationID: in.DestinationID, Distance: in.Distance}
	if err := s.store.Fleet().UpdateRoute(ctx, rt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return rt, nil
}

func (s *Service) DeleteRoute(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteRoute"

	if err := s.store.Fleet().DeleteRoute(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return nil
}

func (s *Service) CreateAirplane(ctx context.Context, in AirplaneInput) (*domain.Airplane, error) {
	const op = "service.catalog.CreateAirplane"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &domain.Airplane{
		Name:           strings.TrimSpace(in.Name),
		Rows:           in.Rows,
		SeatsInRow:     in.SeatsInRow,
		AirplaneTypeID: in.AirplaneTypeID,
	}
	if err := s.store.Fleet().CreateAirplane(ctx, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return a, nil
}

func (s *Service) UpdateAirplane(ctx context.Context, id int64, in AirplaneInput) (*domain.Airplane, error) {
	const op = "service.catalog.UpdateAirplane"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a := &domain.Airplane{
		ID:             id,
		Name:           strings.TrimSpace(in.Name),
		Rows:           in.Rows,
		SeatsInRow:     in.SeatsInRow,
		AirplaneTypeID: in.AirplaneTypeID,
	}
	if err := s.store.Fleet().UpdateAirplane(ctx, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return a, nil
}

func (s *Service) DeleteAirplane(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteAirplane"

	if err := s.store.Fleet().DeleteAirplane(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return nil
}

func (s *Service) CreateFlight(ctx context.Context, in FlightInput) (*domain.Flight, error) {
	const op = "service.catalog.CreateFlight"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := &domain.Flight{
		RouteID:       in.RouteID,
		AirplaneID:    in.AirplaneID,
		DepartureTime: in.DepartureTime,
		ArrivalTime:   in.ArrivalTime,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgres.DB, _ func(uow.AfterCommit)) error {
		return s.store.Flights().With(tx).Create(ctx, f, in.CrewIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return f, nil
}

func (s *Service) UpdateFlight(ctx context.Context, id int64, in FlightInput) (*domain.Flight, error) {
	const op = "service.catalog.UpdateFlight"

	if err := in.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f := &domain.Flight{
		ID:            id,
		RouteID:       in.RouteID,
		AirplaneID:    in.AirplaneID,
		DepartureTime: in.DepartureTime,
		ArrivalTime:   in.ArrivalTime,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgres.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Flights().With(tx).Update(ctx, f, in.CrewIDs); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			s.invalidateFlight(ctx, id)
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return f, nil
}

func (s *Service) DeleteFlight(ctx context.Context, id int64) error {
	const op = "service.catalog.DeleteFlight"

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgres.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Flights().With(tx).Delete(ctx, id); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			s.invalidateFlight(ctx, id)
		})

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return nil
}

func (s *Service) invalidateFlight(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlight(ctx, id); err != nil && s.log != nil {
		s.log.Warn("flight cache invalidation failed", "flight_id", id, "error", err)
	}
}

// mapStoreErr folds repository sentinels into the service taxonomy. A foreign
// key pointing at a missing row reads the same as a missing row itself: the
// referenced entity does not exist.
func (s *Service) mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}

	return err
}

func (in AirportInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.ClosestBigCity) == "" {
		return ErrNameRequired
	}

	return nil
}

func (in CrewInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return ErrNameRequired
	}

	return nil
}

func (in RouteInput) validate() error {
	if in.SourceID == in.DestinationID {
		return ErrSameAirport
	}
	if in.Distance <= 0 {
		return ErrBadDistance
	}

	return nil
}

func (in AirplaneInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if in.Rows <= 0 || in.SeatsInRow <= 0 {
		return ErrBadSeatGrid
	}

	return nil
}

func (in FlightInput) validate() error {
	if !in.ArrivalTime.After(in.DepartureTime) {
		return ErrBadSchedule
	}
	if len(in.CrewIDs) == 0 {
		return ErrCrewRequired
	}

	return nil
}

var _ UseCase = (*Service)(nil)
