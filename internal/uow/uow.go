package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/ivklim/airport-api/internal/repository/postgres"
)

// maxAttempts bounds retries of serialization failures under the default
// Serializable isolation level.
const maxAttempts = 3

// AfterCommit is a function that runs after a successful transaction commit.
// Cache invalidation and event publishing happen here so that a rolled-back
// order never becomes visible anywhere.
type AfterCommit func(ctx context.Context)

// UoW represents a unit of work over the postgres store.
type UoW struct {
	store *postgres.Store
}

func New(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside a transaction, retrying the whole transaction when the
// engine reports a serialization or deadlock failure. After-commit hooks run
// once, only after the final successful commit.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts is Do with explicit transaction options.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var hooks []AfterCommit

		err = u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
			return fn(ctx, tx, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
		if err == nil {
			for _, h := range hooks {
				h(ctx)
			}
			return nil
		}

		if !postgres.IsRetryable(err) {
			return err
		}
	}

	return err
}
