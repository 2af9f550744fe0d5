package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivklim/airport-api/internal/domain"
)

// CatalogRepo holds the simple reference entities: airports, airplane types
// and crew members.
type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *CatalogRepo) CreateAirport(ctx context.Context, a *domain.Airport) error {
	const op = "postgres.CatalogRepo.CreateAirport"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO airports(name, closest_big_city)
		 VALUES ($1, $2)
		 RETURNING id`,
		a.Name, a.ClosestBigCity,
	).Scan(&a.ID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *CatalogRepo) GetAirport(ctx context.Context, id int64) (*domain.Airport, error) {
	const op = "postgres.CatalogRepo.GetAirport"

	db := r.handle()

	var a domain.Airport
	err := db.QueryRow(ctx,
		`SELECT id, name, closest_big_city
		 FROM airports WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.ClosestBigCity)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

func (r *CatalogRepo) ListAirports(ctx context.Context, limit, offset int) ([]domain.Airport, error) {
	const op = "postgres.CatalogRepo.ListAirports"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, closest_big_city
		 FROM airports
		 ORDER BY name
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Airport
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.ClosestBigCity); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) UpdateAirport(ctx context.Context, a *domain.Airport) error {
	const op = "postgres.CatalogRepo.UpdateAirport"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE airports SET name = $2, closest_big_city = $3 WHERE id = $1`,
		a.ID, a.Name, a.ClosestBigCity,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *CatalogRepo) DeleteAirport(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteAirport"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM airports WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *CatalogRepo) CreateAirplaneType(ctx context.Context, t *domain.AirplaneType) error {
	const op = "postgres.CatalogRepo.CreateAirplaneType"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO airplane_types(name) VALUES ($1) RETURNING id`,
		t.Name,
	).Scan(&t.ID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *CatalogRepo) GetAirplaneType(ctx context.Context, id int64) (*domain.AirplaneType, error) {
	const op = "postgres.CatalogRepo.GetAirplaneType"

	db := r.handle()

	var t domain.AirplaneType
	err := db.QueryRow(ctx,
		`SELECT id, name FROM airplane_types WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &t, nil
}

func (r *CatalogRepo) ListAirplaneTypes(ctx context.Context, limit, offset int) ([]domain.AirplaneType, error) {
	const op = "postgres.CatalogRepo.ListAirplaneTypes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name
		 FROM airplane_types
		 ORDER BY name
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.AirplaneType
	for rows.Next() {
		var t domain.AirplaneType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) UpdateAirplaneType(ctx context.Context, t *domain.AirplaneType) error {
	const op = "postgres.CatalogRepo.UpdateAirplaneType"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE airplane_types SET name = $2 WHERE id = $1`,
		t.ID, t.Name,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *CatalogRepo) DeleteAirplaneType(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteAirplaneType"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM airplane_types WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *CatalogRepo) CreateCrew(ctx context.Context, c *domain.Crew) error {
	const op = "postgres.CatalogRepo.CreateCrew"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO crews(first_name, last_name)
		 VALUES ($1, $2)
		 RETURNING id`,
		c.FirstName, c.LastName,
	).Scan(&c.ID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *CatalogRepo) GetCrew(ctx context.Context, id int64) (*domain.Crew, error) {
	const op = "postgres.CatalogRepo.GetCrew"

	db := r.handle()

	var c domain.Crew
	err := db.QueryRow(ctx,
		`SELECT id, first_name, last_name FROM crews WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.FirstName, &c.LastName)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &c, nil
}

func (r *CatalogRepo) ListCrews(ctx context.Context, limit, offset int) ([]domain.Crew, error) {
	const op = "postgres.CatalogRepo.ListCrews"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, first_name, last_name
		 FROM crews
		 ORDER BY first_name, last_name
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Crew
	for rows.Next() {
		var c domain.Crew
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *CatalogRepo) UpdateCrew(ctx context.Context, c *domain.Crew) error {
	const op = "postgres.CatalogRepo.UpdateCrew"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE crews SET first_name = $2, last_name = $3 WHERE id = $1`,
		c.ID, c.FirstName, c.LastName,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}

func (r *CatalogRepo) DeleteCrew(ctx context.Context, id int64) error {
	const op = "postgres.CatalogRepo.DeleteCrew"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM crews WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, errNoRows())
	}

	return nil
}
