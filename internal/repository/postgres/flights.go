package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivklim/airport-api/internal/domain"
)

type FlightRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *FlightRepo) With(db DB) *FlightRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *FlightRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// FlightFilter narrows a flight listing. Empty slices match everything;
// multiple ids within one field are OR-ed, fields are AND-ed together.
type FlightFilter struct {
	RouteIDs    []int64
	AirplaneIDs []int64
	CrewIDs     []int64
}

const flightDetailColumns = `
	f.id, f.route_id, f.airplane_id, f.departure_time, f.arrival_time,
	r.id, r.source_id, r.destination_id, r.distance,
	s.id, s.name, s.closest_big_city,
	d.id, d.name, d.closest_big_city,
	a.id, a.name, a."rows", a.seats_in_row, a.airplane_type_id, a.image_url,
	a."rows" * a.seats_in_row - count(t.id)`

const flightDetailJoins = `
	FROM flights f
	JOIN routes r ON r.id = f.route_id
	JOIN airports s ON s.id = r.source_id
	JOIN airports d ON d.id = r.destination_id
	JOIN airplanes a ON a.id = f.airplane_id
	LEFT JOIN tickets t ON t.flight_id = f.id`

const flightDetailGroup = `
	GROUP BY f.id, r.id, s.id, d.id, a.id`

func scanFlightDetail(row interface{ Scan(dest ...any) error }, fd *domain.FlightDetail) error {
	return row.Scan(
		&fd.ID, &fd.RouteID, &fd.AirplaneID, &fd.DepartureTime, &fd.ArrivalTime,
		&fd.Route.ID, &fd.Route.SourceID, &fd.Route.DestinationID, &fd.Route.Distance,
		&fd.Route.Source.ID, &fd.Route.Source.Name, &fd.Route.Source.ClosestBigCity,
		&fd.Route.Destination.ID, &fd.Route.Destination.Name, &fd.Route.Destination.ClosestBigCity,
		&fd.Airplane.ID, &fd.Airplane.Name, &fd.Airplane.Rows, &fd.Airplane.SeatsInRow,
		&fd.Airplane.AirplaneTypeID, &fd.Airplane.ImageURL,
		&fd.AvailablePlaces,
	)
}

func (r *FlightRepo) Create(ctx context.Context, f *domain.Flight, crewIDs []int64) error {
	const op = "postgres.FlightRepo.Create"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO flights(route_id, airplane_id, departure_time, arrival_time)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		f.RouteID, f.AirplaneID, f.DepartureTime, f.ArrivalTime,
	).Scan(&f.ID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if err := r.assignCrew(ctx, db, f.ID, crewIDs); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *FlightRepo) Update(ctx context.Context, f *domain.Flight, crewIDs []int64) error {
	const op = "postgres.FlightRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE flights
		 SET route_id = $2, airplane_id = $3, departure_time = $4, arrival_time = $5
		 WHERE id = $1`,
		f.ID, f.RouteID, f.AirplaneID, f.DepartureTime, f.ArrivalTime,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	if _, err := db.Exec(ctx, `DELETE FROM flight_crew WHERE flight_id = $1`, f.ID); err != nil {
		return wrapDBErr(op, err)
	}

	if err := r.assignCrew(ctx, db, f.ID, crewIDs); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *FlightRepo) assignCrew(ctx context.Context, db DB, flightID int64, crewIDs []int64) error {
	if len(crewIDs) == 0 {
		return nil
	}

	_, err := db.Exec(ctx,
		`INSERT INTO flight_crew(flight_id, crew_id)
		 SELECT $1, unnest($2::bigint[])
		 ON CONFLICT DO NOTHING`,
		flightID, crewIDs,
	)
	return err
}

func (r *FlightRepo) Delete(ctx context.Context, id int64) error {
	const op = "postgres.FlightRepo.Delete"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *FlightRepo) Get(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	const op = "postgres.FlightRepo.Get"

	db := r.handle()

	var fd domain.FlightDetail
	row := db.QueryRow(ctx,
		`SELECT`+flightDetailColumns+flightDetailJoins+`
		 WHERE f.id = $1`+flightDetailGroup,
		id,
	)
	if err := scanFlightDetail(row, &fd); err != nil {
		return nil, wrapDBErr(op, err)
	}

	crew, err := r.crewForFlight(ctx, db, id)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	fd.Crew = crew

	taken, err := r.TakenSeats(ctx, id)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	fd.TakenSeats = taken

	return &fd, nil
}

func (r *FlightRepo) List(ctx context.Context, f FlightFilter, limit, offset int) ([]domain.FlightDetail, error) {
	const op = "postgres.FlightRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT`+flightDetailColumns+flightDetailJoins+`
		 WHERE (cardinality($1::bigint[]) = 0 OR f.route_id = ANY($1))
		   AND (cardinality($2::bigint[]) = 0 OR f.airplane_id = ANY($2))
		   AND (cardinality($3::bigint[]) = 0 OR EXISTS (
		        SELECT 1 FROM flight_crew fc
		        WHERE fc.flight_id = f.id AND fc.crew_id = ANY($3)))
		`+flightDetailGroup+`
		 ORDER BY f.departure_time
		 LIMIT $4 OFFSET $5`,
		f.RouteIDs, f.AirplaneIDs, f.CrewIDs, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.FlightDetail
	for rows.Next() {
		var fd domain.FlightDetail
		if err := scanFlightDetail(rows, &fd); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, fd)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *FlightRepo) crewForFlight(ctx context.Context, db DB, flightID int64) ([]domain.Crew, error) {
	rows, err := db.Query(ctx,
		`SELECT c.id, c.first_name, c.last_name
		 FROM flight_crew fc
		 JOIN crews c ON c.id = fc.crew_id
		 WHERE fc.flight_id = $1
		 ORDER BY c.first_name, c.last_name`,
		flightID,
	)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var out []domain.Crew
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}

		out = append(out, c)
	}
	return out, rows.Err()
}

// SeatGrid returns the airplane geometry attached to a flight. It is the
// lookup the booking path uses to bounds-check a seat selection.
func (r *FlightRepo) SeatGrid(ctx context.Context, flightID int64) (*domain.SeatGrid, error) {
	const op = "postgres.FlightRepo.SeatGrid"

	db := r.handle()

	var g domain.SeatGrid
	err := db.QueryRow(ctx,
		`SELECT f.id, a."rows", a.seats_in_row
		 FROM flights f
		 JOIN airplanes a ON a.id = f.airplane_id
		 WHERE f.id = $1`,
		flightID,
	).Scan(&g.FlightID, &g.Rows, &g.SeatsInRow)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &g, nil
}

// TakenSeats lists the coordinates already sold on a flight.
func (r *FlightRepo) TakenSeats(ctx context.Context, flightID int64) ([]domain.SeatRef, error) {
	const op = "postgres.FlightRepo.TakenSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT "row", seat FROM tickets
		 WHERE flight_id = $1
		 ORDER BY "row", seat`,
		flightID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.SeatRef
	for rows.Next() {
		var s domain.SeatRef
		if err := rows.Scan(&s.Row, &s.Seat); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
