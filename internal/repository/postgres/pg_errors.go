package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ivklim/airport-api/internal/repository"
)

// IsRetryable reports whether the error is a serialization or deadlock
// failure and the whole transaction can be retried as-is.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
	}

	return false
}

// errNoRows lets Exec-based updates and deletes report a missing row the same
// way QueryRow does, so wrapDBErr translates both to repository.ErrNotFound.
func errNoRows() error { return pgx.ErrNoRows }

// wrapDBErr maps common pgx errors to repository-level sentinels and wraps
// them with the operation name. 23505 (unique_violation) becomes ErrConflict:
// on the booking path that is a lost seat race. 23503 (foreign_key_violation)
// becomes ErrNotFound: the referenced row does not exist.
func wrapDBErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, repository.ErrConflict)
		case "23503":
			return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
