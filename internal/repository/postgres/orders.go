package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivklim/airport-api/internal/domain"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// SeatTaken reports whether a committed ticket already occupies
// (flightID, row, seat). It is advisory only: the unique index on tickets
// decides races between concurrent orders at commit time.
func (r *OrderRepo) SeatTaken(ctx context.Context, flightID int64, row, seat int) (bool, error) {
	const op = "postgres.OrderRepo.SeatTaken"

	db := r.handle()

	var taken bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
		    SELECT 1 FROM tickets
		    WHERE flight_id = $1 AND "row" = $2 AND seat = $3)`,
		flightID, row, seat,
	).Scan(&taken)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return taken, nil
}

// Create persists one order and all its tickets in a single serializable
// transaction. Either every ticket commits or none does; a unique violation
// on (flight_id, row, seat) rolls the whole order back and surfaces as
// repository.ErrConflict.
func (r *OrderRepo) Create(
	ctx context.Context,
	userID int64,
	items []domain.SeatSelection,
) (*domain.OrderWithTickets, error) {
	const op = "postgres.OrderRepo.Create"

	if r.db != nil {
		out, err := r.createCore(ctx, r.db, userID, items)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		return out, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer tx.Rollback(ctx)

	out, err := r.createCore(ctx, tx, userID, items)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *OrderRepo) createCore(
	ctx context.Context,
	db DB,
	userID int64,
	items []domain.SeatSelection,
) (*domain.OrderWithTickets, error) {
	var out domain.OrderWithTickets
	out.UserID = userID

	err := db.QueryRow(ctx,
		`INSERT INTO orders(user_id)
		 VALUES ($1)
		 RETURNING id, created_at`,
		userID,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO tickets("row", seat, flight_id, order_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			it.Row, it.Seat, it.FlightID, out.ID,
		)
	}

	br := db.SendBatch(ctx, batch)
	defer br.Close()

	for _, it := range items {
		t := domain.Ticket{
			Row:      it.Row,
			Seat:     it.Seat,
			FlightID: it.FlightID,
			OrderID:  out.ID,
		}
		if err := br.QueryRow().Scan(&t.ID); err != nil {
			return nil, err
		}

		out.Tickets = append(out.Tickets, t)
	}

	return &out, nil
}

// ListByUser returns the caller's orders, newest first, each with its
// tickets. Other users' orders are filtered out in SQL.
func (r *OrderRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.OrderWithTickets, error) {
	const op = "postgres.OrderRepo.ListByUser"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, user_id, created_at
		 FROM orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.OrderWithTickets
	ids := make([]int64, 0)
	byID := make(map[int64]int)

	for rows.Next() {
		var o domain.OrderWithTickets
		if err := rows.Scan(&o.ID, &o.UserID, &o.CreatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}

		byID[o.ID] = len(out)
		ids = append(ids, o.ID)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	if len(ids) == 0 {
		return out, nil
	}

	trows, err := db.Query(ctx,
		`SELECT id, "row", seat, flight_id, order_id
		 FROM tickets
		 WHERE order_id = ANY($1)
		 ORDER BY id`,
		ids,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer trows.Close()

	for trows.Next() {
		var t domain.Ticket
		if err := trows.Scan(&t.ID, &t.Row, &t.Seat, &t.FlightID, &t.OrderID); err != nil {
			return nil, wrapDBErr(op, err)
		}

		if i, ok := byID[t.OrderID]; ok {
			out[i].Tickets = append(out[i].Tickets, t)
		}
	}
	if err := trows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// GetByUser returns one order with its tickets, only when it belongs to
// userID. A foreign order is indistinguishable from a missing one.
func (r *OrderRepo) GetByUser(ctx context.Context, userID, orderID int64) (*domain.OrderWithTickets, error) {
	const op = "postgres.OrderRepo.GetByUser"

	db := r.handle()

	var out domain.OrderWithTickets
	err := db.QueryRow(ctx,
		`SELECT id, user_id, created_at
		 FROM orders
		 WHERE id = $1 AND user_id = $2`,
		orderID, userID,
	).Scan(&out.ID, &out.UserID, &out.CreatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT id, "row", seat, flight_id, order_id
		 FROM tickets
		 WHERE order_id = $1
		 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.Row, &t.Seat, &t.FlightID, &t.OrderID); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out.Tickets = append(out.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &out, nil
}
