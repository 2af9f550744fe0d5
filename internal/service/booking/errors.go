package booking

import "errors"

var (
	// ErrNoIdentity means the call reached the service without an
	// authenticated caller. The HTTP layer normally rejects these earlier.
	ErrNoIdentity = errors.New("caller identity required")

	// ErrEmptyOrder rejects an order with no seat selections.
	ErrEmptyOrder = errors.New("order must contain at least one ticket")

	// ErrFlightNotFound means a selection references an unknown flight.
	ErrFlightNotFound = errors.New("flight not found")

	// ErrSeatOutOfRange means the requested (row, seat) is off the
	// airplane's grid.
	ErrSeatOutOfRange = errors.New("invalid seat number")

	// ErrSeatTaken means another ticket already holds the requested seat,
	// either committed earlier or committed by a concurrent order that won
	// the race. Callers may retry with a different seat.
	ErrSeatTaken = errors.New("seat is already taken")

	// ErrRateLimited throttles a caller placing orders too fast.
	ErrRateLimited = errors.New("rate limited")
)
