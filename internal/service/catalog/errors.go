package catalog

import "errors"

var (
	// ErrNameRequired is returned when a named entity is created or renamed
	// with an empty name.
	ErrNameRequired = errors.New("name is required")

	// ErrSameAirport is returned when a route's source and destination are
	// the same airport.
	ErrSameAirport = errors.New("source and destination must differ")

	// ErrBadDistance is returned for a route with a non-positive distance.
	ErrBadDistance = errors.New("distance must be positive")

	// ErrBadSeatGrid is returned for an airplane whose rows or seats per row
	// are not positive.
	ErrBadSeatGrid = errors.New("rows and seats in row must be positive")

	// ErrBadSchedule is returned for a flight that arrives before it departs.
	ErrBadSchedule = errors.New("arrival must be after departure")

	// ErrCrewRequired is returned when a flight is created without crew.
	ErrCrewRequired = errors.New("at least one crew member is required")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotImage is returned when an uploaded file is not an image.
	ErrNotImage = errors.New("file is not an image")
)
