package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivklim/airport-api/internal/domain"
)

// FleetRepo holds routes and airplanes.
type FleetRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *FleetRepo) With(db DB) *FleetRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *FleetRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// RouteFilter narrows a route listing. Empty slices match everything;
// multiple ids within one field are OR-ed.
type RouteFilter struct {
	SourceIDs      []int64
	DestinationIDs []int64
}

func (r *FleetRepo) CreateRoute(ctx context.Context, rt *domain.Route) error {
	const op = "postgres.FleetRepo.CreateRoute"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO routes(source_id, destination_id, distance)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		rt.SourceID, rt.DestinationID, rt.Distance,
	).Scan(&rt.ID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *FleetRepo) GetRoute(ctx context.Context, id int64) (*domain.RouteDetail, error) {
	const op = "postgres.FleetRepo.GetRoute"

	db := r.handle()

	var rd domain.RouteDetail
	err := db.QueryRow(ctx,
		`SELECT r.id, r.source_id, r.destination_id, r.distance,
		        s.id, s.name, s.closest_big_city,
		        d.id, d.name, d.closest_big_city
		 FROM routes r
		 JOIN airports s ON s.id = r.source_id
		 JOIN airports d ON d.id = r.destination_id
		 WHERE r.id = $1`,
		id,
	).Scan(
		&rd.ID, &rd.SourceID, &rd.DestinationID, &rd.Distance,
		&rd.Source.ID, &rd.Source.Name, &rd.Source.ClosestBigCity,
		&rd.Destination.ID, &rd.Destination.Name, &rd.Destination.ClosestBigCity,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &rd, nil
}

func (r *FleetRepo) ListRoutes(ctx context.Context, f RouteFilter, limit, offset int) ([]domain.RouteDetail, error) {
	const op = "postgres.FleetRepo.ListRoutes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT r.id, r.source_id, r.destination_id, r.distance,
		        s.id, s.name, s.closest_big_city,
		        d.id, d.name, d.closest_big_city
		 FROM routes r
		 JOIN airports s ON s.id = r.source_id
		 JOIN airports d ON d.id = r.destination_id
		 WHERE (cardinality($1::bigint[]) = 0 OR r.source_id = ANY($1))
		   AND (cardinality($2::bigint[]) = 0 OR r.destination_id = ANY($2))
		 ORDER BY s.name, d.name
		 LIMIT $3 OFFSET $4`,
		f.SourceIDs, f.DestinationIDs, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.RouteDetail
	for rows.Next() {
		var rd domain.RouteDetail
		if err := rows.Scan(
			&rd.ID, &rd.SourceID, &rd.DestinationID, &rd.Distance,
			&rd.Source.ID, &rd.Source.Name, &rd.Source.ClosestBigCity,
			&rd.Destination.ID, &rd.Destination.Name, &rd.Destination.ClosestBigCity,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *FleetRepo) UpdateRoute(ctx context.Context, rt *domain.Route) error {
	const op = "postgres.FleetRepo.UpdateRoute"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE routes SET source_id = $2, destination_id = $3, distance = $4 WHERE id = $1`,
		rt.ID, rt.SourceID, rt.DestinationID, rt.Distance,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *FleetRepo) DeleteRoute(ctx context.Context, id int64) error {
	const op = "postgres.FleetRepo.DeleteRoute"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *FleetRepo) CreateAirplane(ctx context.Context, a *domain.Airplane) error {
	const op = "postgres.FleetRepo.CreateAirplane"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO airplanes(name, "rows", seats_in_row, airplane_type_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID,
	).Scan(&a.ID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *FleetRepo) GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	const op = "postgres.FleetRepo.GetAirplane"

	db := r.handle()

	var a domain.Airplane
	err := db.QueryRow(ctx,
		`SELECT id, name, "rows", seats_in_row, airplane_type_id, image_url
		 FROM airplanes WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.ImageURL)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

func (r *FleetRepo) ListAirplanes(ctx context.Context, typeIDs []int64, limit, offset int) ([]domain.Airplane, error) {
	const op = "postgres.FleetRepo.ListAirplanes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, "rows", seats_in_row, airplane_type_id, image_url
		 FROM airplanes
		 WHERE cardinality($1::bigint[]) = 0 OR airplane_type_id = ANY($1)
		 ORDER BY name
		 LIMIT $2 OFFSET $3`,
		typeIDs, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Airplane
	for rows.Next() {
		var a domain.Airplane
		if err := rows.Scan(&a.ID, &a.Name, &a.Rows, &a.SeatsInRow, &a.AirplaneTypeID, &a.ImageURL); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *FleetRepo) UpdateAirplane(ctx context.Context, a *domain.Airplane) error {
	const op = "postgres.FleetRepo.UpdateAirplane"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE airplanes
		 SET name = $2, "rows" = $3, seats_in_row = $4, airplane_type_id = $5
		 WHERE id = $1`,
		a.ID, a.Name, a.Rows, a.SeatsInRow, a.AirplaneTypeID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *FleetRepo) SetAirplaneImage(ctx context.Context, id int64, imageURL string) error {
	const op = "postgres.FleetRepo.SetAirplaneImage"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE airplanes SET image_url = $2 WHERE id = $1`,
		id, imageURL,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *FleetRepo) DeleteAirplane(ctx context.Context, id int64) error {
	const op = "postgres.FleetRepo.DeleteAirplane"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM airplanes WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}
