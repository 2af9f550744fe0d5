package service

import (
	"github.com/ivklim/airport-api/internal/service/auth"
	"github.com/ivklim/airport-api/internal/service/booking"
	"github.com/ivklim/airport-api/internal/service/catalog"
	"github.com/ivklim/airport-api/internal/service/query"
)

// Services bundles the use cases the transport layer is wired against.
type Services struct {
	Auth    auth.UseCase
	Booking booking.UseCase
	Catalog catalog.UseCase
	Query   query.UseCase
}
