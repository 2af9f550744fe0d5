package httpgin

import (
	"time"

	"github.com/ivklim/airport-api/internal/domain"
)

// --- Requests ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AirportRequest struct {
	Name           string `json:"name" binding:"required"`
	ClosestBigCity string `json:"closest_big_city" binding:"required"`
}

type AirplaneTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

type CrewRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type RouteRequest struct {
	SourceID      int64 `json:"source" binding:"required"`
	DestinationID int64 `json:"destination" binding:"required"`
	Distance      int   `json:"distance" binding:"required"`
}

type AirplaneRequest struct {
	Name           string `json:"name" binding:"required"`
	Rows           int    `json:"rows" binding:"required"`
	SeatsInRow     int    `json:"seats_in_row" binding:"required"`
	AirplaneTypeID int64  `json:"airplane_type" binding:"required"`
}

type FlightRequest struct {
	RouteID       int64   `json:"route" binding:"required"`
	AirplaneID    int64   `json:"airplane" binding:"required"`
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	CrewIDs       []int64 `json:"crew" binding:"required,min=1,dive,required"`
}

type CreateOrderRequest struct {
	Tickets []TicketInput `json:"tickets" binding:"required,min=1,dive"`
}

type TicketInput struct {
	FlightID int64 `json:"flight" binding:"required"`
	Row      int   `json:"row" binding:"required"`
	Seat     int   `json:"seat" binding:"required"`
}

// --- Responses ---

type ErrorResponse struct {
	Error string `json:"error"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

type UserResponse struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}

type AirportResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	ClosestBigCity string `json:"closest_big_city"`
}

type AirplaneTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CrewResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type RouteResponse struct {
	ID            int64  `json:"id"`
	SourceID      int64  `json:"source"`
	DestinationID int64  `json:"destination"`
	Distance      int    `json:"distance"`
	SourceName    string `json:"source_name,omitempty"`
	DestName      string `json:"destination_name,omitempty"`
}

type AirplaneResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Rows           int     `json:"rows"`
	SeatsInRow     int     `json:"seats_in_row"`
	Capacity       int     `json:"capacity"`
	AirplaneTypeID int64   `json:"airplane_type"`
	ImageURL       *string `json:"image_url"`
}

type FlightResponse struct {
	ID            int64     `json:"id"`
	RouteID       int64     `json:"route"`
	AirplaneID    int64     `json:"airplane"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
}

type FlightDetailResponse struct {
	ID              int64            `json:"id"`
	Route           RouteResponse    `json:"route"`
	Airplane        AirplaneResponse `json:"airplane"`
	DepartureTime   time.Time        `json:"departure_time"`
	ArrivalTime     time.Time        `json:"arrival_time"`
	Crew            []CrewResponse   `json:"crew"`
	AvailablePlaces int              `json:"available_places"`
	TakenSeats      []SeatResponse   `json:"taken_seats"`
}

type SeatResponse struct {
	Row  int `json:"row"`
	Seat int `json:"seat"`
}

type TicketResponse struct {
	ID       int64 `json:"id"`
	Row      int   `json:"row"`
	Seat     int   `json:"seat"`
	FlightID int64 `json:"flight"`
	OrderID  int64 `json:"order"`
}

type OrderResponse struct {
	ID        int64            `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Tickets   []TicketResponse `json:"tickets"`
}

type UploadImageResponse struct {
	ImageURL string `json:"image_url"`
}

// --- Mapping ---
//
// Wire shapes are mapped field by field on purpose: renaming a domain field
// must never silently change the public API.

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, IsStaff: u.IsStaff}
}

func toAirportResponse(a *domain.Airport) AirportResponse {
	return AirportResponse{ID: a.ID, Name: a.Name, ClosestBigCity: a.ClosestBigCity}
}

func toAirportList(in []domain.Airport) []AirportResponse {
	out := make([]AirportResponse, 0, len(in))
	for i := range in {
		out = append(out, toAirportResponse(&in[i]))
	}
	return out
}

func toAirplaneTypeResponse(t *domain.AirplaneType) AirplaneTypeResponse {
	return AirplaneTypeResponse{ID: t.ID, Name: t.Name}
}

func toAirplaneTypeList(in []domain.AirplaneType) []AirplaneTypeResponse {
	out := make([]AirplaneTypeResponse, 0, len(in))
	for i := range in {
		out = append(out, toAirplaneTypeResponse(&in[i]))
	}
	return out
}

func toCrewResponse(c *domain.Crew) CrewResponse {
	return CrewResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
	}
}

func toCrewList(in []domain.Crew) []CrewResponse {
	out := make([]CrewResponse, 0, len(in))
	for i := range in {
		out = append(out, toCrewResponse(&in[i]))
	}
	return out
}

func toRouteResponse(rt *domain.Route) RouteResponse {
	return RouteResponse{
		ID:            rt.ID,
		SourceID:      rt.SourceID,
		DestinationID: rt.DestinationID,
		Distance:      rt.Distance,
	}
}

func toRouteDetailResponse(rt *domain.RouteDetail) RouteResponse {
	out := toRouteResponse(&rt.Route)
	out.SourceName = rt.Source.Name
	out.DestName = rt.Destination.Name
	return out
}

func toRouteDetailList(in []domain.RouteDetail) []RouteResponse {
	out := make([]RouteResponse, 0, len(in))
	for i := range in {
		out = append(out, toRouteDetailResponse(&in[i]))
	}
	return out
}

func toAirplaneResponse(a *domain.Airplane) AirplaneResponse {
	return AirplaneResponse{
		ID:             a.ID,
		Name:           a.Name,
		Rows:           a.Rows,
		SeatsInRow:     a.SeatsInRow,
		Capacity:       a.Rows * a.SeatsInRow,
		AirplaneTypeID: a.AirplaneTypeID,
		ImageURL:       a.ImageURL,
	}
}

func toAirplaneList(in []domain.Airplane) []AirplaneResponse {
	out := make([]AirplaneResponse, 0, len(in))
	for i := range in {
		out = append(out, toAirplaneResponse(&in[i]))
	}
	return out
}

func toFlightResponse(f *domain.Flight) FlightResponse {
	return FlightResponse{
		ID:            f.ID,
		RouteID:       f.RouteID,
		AirplaneID:    f.AirplaneID,
		DepartureTime: f.DepartureTime,
		ArrivalTime:   f.ArrivalTime,
	}
}

func toFlightDetailResponse(fd *domain.FlightDetail) FlightDetailResponse {
	out := FlightDetailResponse{
		ID:              fd.ID,
		Route:           toRouteDetailResponse(&fd.Route),
		Airplane:        toAirplaneResponse(&fd.Airplane),
		DepartureTime:   fd.DepartureTime,
		ArrivalTime:     fd.ArrivalTime,
		Crew:            toCrewList(fd.Crew),
		AvailablePlaces: fd.AvailablePlaces,
		TakenSeats:      make([]SeatResponse, 0, len(fd.TakenSeats)),
	}
	for _, s := range fd.TakenSeats {
		out.TakenSeats = append(out.TakenSeats, SeatResponse{Row: s.Row, Seat: s.Seat})
	}
	return out
}

func toFlightDetailList(in []domain.FlightDetail) []FlightDetailResponse {
	out := make([]FlightDetailResponse, 0, len(in))
	for i := range in {
		out = append(out, toFlightDetailResponse(&in[i]))
	}
	return out
}

func toOrderResponse(o *domain.OrderWithTickets) OrderResponse {
	out := OrderResponse{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Tickets:   make([]TicketResponse, 0, len(o.Tickets)),
	}
	for _, t := range o.Tickets {
		out.Tickets = append(out.Tickets, TicketResponse{
			ID:       t.ID,
			Row:      t.Row,
			Seat:     t.Seat,
			FlightID: t.FlightID,
			OrderID:  t.OrderID,
		})
	}
	return out
}

func toOrderList(in []domain.OrderWithTickets) []OrderResponse {
	out := make([]OrderResponse, 0, len(in))
	for i := range in {
		out = append(out, toOrderResponse(&in[i]))
	}
	return out
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
