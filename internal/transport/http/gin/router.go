package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	redisrepo "github.com/ivklim/airport-api/internal/repository/redis"
	"github.com/ivklim/airport-api/internal/service"
	"github.com/ivklim/airport-api/internal/service/auth"
	"github.com/ivklim/airport-api/internal/service/booking"
	"github.com/ivklim/airport-api/internal/service/catalog"
	"github.com/ivklim/airport-api/internal/service/query"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	mediaDir string,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health + metrics
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if mediaDir != "" {
		r.Static("/media", mediaDir)
	}

	api := r.Group("/api/v1")

	// Public API
	api.POST("/users/register", handleRegister(svcs))
	api.POST("/users/login", handleLogin(svcs))

	authed := api.Group("", AuthMiddleware(svcs.Auth))
	{
		authed.GET("/users/me", handleMe(svcs))

		authed.GET("/airports", handleListAirports(svcs))
		authed.GET("/airports/:id", handleGetAirport(svcs))
		authed.GET("/airplane-types", handleListAirplaneTypes(svcs))
		authed.GET("/airplane-types/:id", handleGetAirplaneType(svcs))
		authed.GET("/crews", handleListCrews(svcs))
		authed.GET("/crews/:id", handleGetCrew(svcs))
		authed.GET("/routes", handleListRoutes(svcs))
		authed.GET("/routes/:id", handleGetRoute(svcs))
		authed.GET("/airplanes", handleListAirplanes(svcs))
		authed.GET("/airplanes/:id", handleGetAirplane(svcs))
		authed.GET("/flights", handleListFlights(svcs))
		authed.GET("/flights/:id", handleGetFlight(svcs))

		authed.GET("/orders", handleListOrders(svcs))
		authed.GET("/orders/:id", handleGetOrder(svcs))
		authed.POST("/orders", handleCreateOrder(svcs, idem))
	}

	staff := authed.Group("", RequireStaff())
	{
		staff.POST("/airports", handleCreateAirport(svcs))
		staff.PUT("/airports/:id", handleUpdateAirport(svcs))
		staff.DELETE("/airports/:id", handleDeleteAirport(svcs))

		staff.POST("/airplane-types", handleCreateAirplaneType(svcs))
		staff.PUT("/airplane-types/:id", handleUpdateAirplaneType(svcs))
		staff.DELETE("/airplane-types/:id", handleDeleteAirplaneType(svcs))

		staff.POST("/crews", handleCreateCrew(svcs))
		staff.PUT("/crews/:id", handleUpdateCrew(svcs))
		staff.DELETE("/crews/:id", handleDeleteCrew(svcs))

		staff.POST("/routes", handleCreateRoute(svcs))
		staff.PUT("/routes/:id", handleUpdateRoute(svcs))
		staff.DELETE("/routes/:id", handleDeleteRoute(svcs))

		staff.POST("/airplanes", handleCreateAirplane(svcs))
		staff.PUT("/airplanes/:id", handleUpdateAirplane(svcs))
		staff.DELETE("/airplanes/:id", handleDeleteAirplane(svcs))
		staff.POST("/airplanes/:id/image", handleUploadAirplaneImage(svcs))

		staff.POST("/flights", handleCreateFlight(svcs))
		staff.PUT("/flights/:id", handleUpdateFlight(svcs))
		staff.DELETE("/flights/:id", handleDeleteFlight(svcs))
	}

	return r
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// parseIDList reads a comma-separated list of IDs from a query parameter.
// Malformed entries are skipped rather than failing the whole request.
func parseIDList(c *gin.Context, name string) []int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}

	var out []int64
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func pageFromQuery(c *gin.Context) query.Page {
	return query.Page{
		Limit:  parseIntDefault(c.Query("limit"), 0),
		Offset: parseIntDefault(c.Query("offset"), 0),
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// auth service
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid email or password"})
		return
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
		return
	// booking service
	case errors.Is(err, booking.ErrSeatTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat is already taken"})
		return
	case errors.Is(err, booking.ErrRateLimited):
		c.Header("Retry-After", "60")
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
		return
	case errors.Is(err, booking.ErrNoIdentity):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	case errors.Is(err, booking.ErrEmptyOrder),
		errors.Is(err, booking.ErrFlightNotFound),
		errors.Is(err, booking.ErrSeatOutOfRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	// catalog service
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		return
	case errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrSameAirport),
		errors.Is(err, catalog.ErrBadDistance),
		errors.Is(err, catalog.ErrBadSeatGrid),
		errors.Is(err, catalog.ErrBadSchedule),
		errors.Is(err, catalog.ErrCrewRequired),
		errors.Is(err, catalog.ErrNotImage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	// query service
	case errors.Is(err, query.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
