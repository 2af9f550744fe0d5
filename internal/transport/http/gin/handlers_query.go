package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivklim/airport-api/internal/repository/postgres"
	"github.com/ivklim/airport-api/internal/service"
)

// @Summary  List airports
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200 {array} AirportResponse
// @Router   /airports [get]
func handleListAirports(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Query.ListAirports(c.Request.Context(), pageFromQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toAirportList(out), "private, max-age=60", true)
	}
}

// @Summary  Get airport
// @Param    id  path  int  true  "Airport ID"
// @Success  200 {object} AirportResponse
// @Failure  404 {object} ErrorResponse
// @Router   /airports/{id} [get]
func handleGetAirport(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		a, err := svcs.Query.GetAirport(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toAirportResponse(a), "private, max-age=60", true)
	}
}

// @Summary  List airplane types
// @Success  200 {array} AirplaneTypeResponse
// @Router   /airplane-types [get]
func handleListAirplaneTypes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Query.ListAirplaneTypes(c.Request.Context(), pageFromQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toAirplaneTypeList(out), "private, max-age=60", true)
	}
}

// @Summary  Get airplane type
// @Param    id  path  int  true  "Airplane type ID"
// @Success  200 {object} AirplaneTypeResponse
// @Router   /airplane-types/{id} [get]
func handleGetAirplaneType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		tpe, err := svcs.Query.GetAirplaneType(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAirplaneTypeResponse(tpe))
	}
}

// @Summary  List crew members
// @Success  200 {array} CrewResponse
// @Router   /crews [get]
func handleListCrews(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Query.ListCrews(c.Request.Context(), pageFromQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toCrewList(out))
	}
}

// @Summary  Get crew member
// @Param    id  path  int  true  "Crew ID"
// @Success  200 {object} CrewResponse
// @Router   /crews/{id} [get]
func handleGetCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		crew, err := svcs.Query.GetCrew(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toCrewResponse(crew))
	}
}

// @Summary  List routes
// @Param    source      query  string  false "comma-separated airport IDs"
// @Param    destination query  string  false "comma-separated airport IDs"
// @Success  200 {array} RouteResponse
// @Router   /routes [get]
func handleListRoutes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := postgres.RouteFilter{
			SourceIDs:      parseIDList(c, "source"),
			DestinationIDs: parseIDList(c, "destination"),
		}
		out, err := svcs.Query.ListRoutes(c.Request.Context(), f, pageFromQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toRouteDetailList(out), "private, max-age=60", true)
	}
}

// @Summary  Get route
// @Param    id  path  int  true  "Route ID"
// @Success  200 {object} RouteResponse
// @Router   /routes/{id} [get]
func handleGetRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		rt, err := svcs.Query.GetRoute(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toRouteDetailResponse(rt))
	}
}

// @Summary  List airplanes
// @Param    airplane_type query string false "comma-separated type IDs"
// @Success  200 {array} AirplaneResponse
// @Router   /airplanes [get]
func handleListAirplanes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		typeIDs := parseIDList(c, "airplane_type")
		out, err := svcs.Query.ListAirplanes(c.Request.Context(), typeIDs, pageFromQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAirplaneList(out))
	}
}

// @Summary  Get airplane
// @Param    id  path  int  true  "Airplane ID"
// @Success  200 {object} AirplaneResponse
// @Router   /airplanes/{id} [get]
func handleGetAirplane(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		a, err := svcs.Query.GetAirplane(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAirplaneResponse(a))
	}
}

// @Summary  List flights with availability
// @Param    route    query string false "comma-separated route IDs"
// @Param    airplane query string false "comma-separated airplane IDs"
// @Param    crew     query string false "comma-separated crew IDs"
// @Param    limit    query int    false "page size"
// @Param    offset   query int    false "offset"
// @Success  200 {array} FlightDetailResponse
// @Router   /flights [get]
func handleListFlights(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := postgres.FlightFilter{
			RouteIDs:    parseIDList(c, "route"),
			AirplaneIDs: parseIDList(c, "airplane"),
			CrewIDs:     parseIDList(c, "crew"),
		}
		out, err := svcs.Query.ListFlights(c.Request.Context(), f, pageFromQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toFlightDetailList(out), "private, max-age=15", true)
	}
}

// @Summary  Get flight with crew and taken seats
// @Param    id  path  int  true  "Flight ID"
// @Success  200 {object} FlightDetailResponse
// @Failure  404 {object} ErrorResponse
// @Router   /flights/{id} [get]
func handleGetFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		fd, err := svcs.Query.GetFlight(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toFlightDetailResponse(fd), "private, max-age=15", true)
	}
}
