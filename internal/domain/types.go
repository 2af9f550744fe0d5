package domain

import "time"

// Airport is immutable reference data describing a place a route may start or end.
type Airport struct {
	ID             int64
	Name           string
	ClosestBigCity string
}

type Route struct {
	ID            int64
	SourceID      int64
	DestinationID int64
	Distance      int
}

// RouteDetail is the read model for a route with both endpoints resolved.
type RouteDetail struct {
	Route
	Source      Airport
	Destination Airport
}

type AirplaneType struct {
	ID   int64
	Name string
}

// Airplane defines the seat grid for every flight it operates:
// valid coordinates are row in [1, Rows], seat in [1, SeatsInRow].
type Airplane struct {
	ID             int64
	Name           string
	Rows           int
	SeatsInRow     int
	AirplaneTypeID int64
	ImageURL       *string
}

type Crew struct {
	ID        int64
	FirstName string
	LastName  string
}

func (c Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Flight struct {
	ID            int64
	RouteID       int64
	AirplaneID    int64
	DepartureTime time.Time
	ArrivalTime   time.Time
}

// FlightDetail is the read model for a single flight: resolved route and
// airplane, assigned crew and derived seat availability.
type FlightDetail struct {
	Flight
	Route           RouteDetail
	Airplane        Airplane
	Crew            []Crew
	AvailablePlaces int
	TakenSeats      []SeatRef
}

// SeatGrid is the airplane geometry of one flight, enough to bounds-check
// a seat selection without loading the full airplane record.
type SeatGrid struct {
	FlightID   int64
	Rows       int
	SeatsInRow int
}

// Contains reports whether (row, seat) is a physical seat on this grid.
func (g SeatGrid) Contains(row, seat int) bool {
	return row >= 1 && row <= g.Rows && seat >= 1 && seat <= g.SeatsInRow
}

type SeatRef struct {
	Row  int
	Seat int
}

// SeatSelection names one requested seat in an order: a flight plus a
// coordinate on that flight's grid.
type SeatSelection struct {
	FlightID int64
	Row      int
	Seat     int
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsStaff      bool
	CreatedAt    time.Time
}

type Order struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
}

// Ticket is a committed seat reservation. (FlightID, Row, Seat) is unique
// across all tickets; the database constraint is the authority.
type Ticket struct {
	ID       int64
	Row      int
	Seat     int
	FlightID int64
	OrderID  int64
}

type OrderWithTickets struct {
	Order
	Tickets []Ticket
}
