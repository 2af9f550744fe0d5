package httpgin

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivklim/airport-api/internal/service"
	"github.com/ivklim/airport-api/internal/service/catalog"
)

// maxImageSize bounds airplane image uploads.
const maxImageSize = 5 << 20

// @Summary  Create airport
// @Param    req body  AirportRequest true "payload"
// @Success  201 {object} AirportResponse
// @Router   /airports [post]
func handleCreateAirport(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AirportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		a, err := svcs.Catalog.CreateAirport(c.Request.Context(), catalog.AirportInput{
			Name:           req.Name,
			ClosestBigCity: req.ClosestBigCity,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toAirportResponse(a))
	}
}

// @Summary  Update airport
// @Param    id  path  int  true  "Airport ID"
// @Param    req body  AirportRequest true "payload"
// @Success  200 {object} AirportResponse
// @Router   /airports/{id} [put]
func handleUpdateAirport(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AirportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		a, err := svcs.Catalog.UpdateAirport(c.Request.Context(), id, catalog.AirportInput{
			Name:           req.Name,
			ClosestBigCity: req.ClosestBigCity,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAirportResponse(a))
	}
}

// @Summary  Delete airport
// @Param    id  path  int  true  "Airport ID"
// @Success  204
// @Router   /airports/{id} [delete]
func handleDeleteAirport(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteAirport(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create airplane type
// @Param    req body  AirplaneTypeRequest true "payload"
// @Success  201 {object} AirplaneTypeResponse
// @Router   /airplane-types [post]
func handleCreateAirplaneType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AirplaneTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		tpe, err := svcs.Catalog.CreateAirplaneType(c.Request.Context(), req.Name)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toAirplaneTypeResponse(tpe))
	}
}

// @Summary  Update airplane type
// @Param    id  path  int  true  "Airplane type ID"
// @Param    req body  AirplaneTypeRequest true "payload"
// @Success  200 {object} AirplaneTypeResponse
// @Router   /airplane-types/{id} [put]
func handleUpdateAirplaneType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AirplaneTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		tpe, err := svcs.Catalog.UpdateAirplaneType(c.Request.Context(), id, req.Name)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAirplaneTypeResponse(tpe))
	}
}

// @Summary  Delete airplane type
// @Param    id  path  int  true  "Airplane type ID"
// @Success  204
// @Router   /airplane-types/{id} [delete]
func handleDeleteAirplaneType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteAirplaneType(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create crew member
// @Param    req body  CrewRequest true "payload"
// @Success  201 {object} CrewResponse
// @Router   /crews [post]
func handleCreateCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CrewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		crew, err := svcs.Catalog.CreateCrew(c.Request.Context(), catalog.CrewInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toCrewResponse(crew))
	}
}

// @Summary  Update crew member
// @Param    id  path  int  true  "Crew ID"
// @Param    req body  CrewRequest true "payload"
// @Success  200 {object} CrewResponse
// @Router   /crews/{id} [put]
func handleUpdateCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CrewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		crew, err := svcs.Catalog.UpdateCrew(c.Request.Context(), id, catalog.CrewInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toCrewResponse(crew))
	}
}

// @Summary  Delete crew member
// @Param    id  path  int  true  "Crew ID"
// @Success  204
// @Router   /crews/{id} [delete]
func handleDeleteCrew(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteCrew(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create route
// @Param    req body  RouteRequest true "payload"
// @Success  201 {object} RouteResponse
// @Failure  400 {object} ErrorResponse "same airport / bad distance"
// @Router   /routes [post]
func handleCreateRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		rt, err := svcs.Catalog.CreateRoute(c.Request.Context(), catalog.RouteInput{
			SourceID:      req.SourceID,
			DestinationID: req.DestinationID,
			Distance:      req.Distance,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toRouteResponse(rt))
	}
}

// @Summary  Update route
// @Param    id  path  int  true  "Route ID"
// @Param    req body  RouteRequest true "payload"
// @Success  200 {object} RouteResponse
// @Router   /routes/{id} [put]
func handleUpdateRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req RouteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		rt, err := svcs.Catalog.UpdateRoute(c.Request.Context(), id, catalog.RouteInput{
			SourceID:      req.SourceID,
			DestinationID: req.DestinationID,
			Distance:      req.Distance,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toRouteResponse(rt))
	}
}

// @Summary  Delete route
// @Param    id  path  int  true  "Route ID"
// @Success  204
// @Router   /routes/{id} [delete]
func handleDeleteRoute(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteRoute(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Create airplane
// @Param    req body  AirplaneRequest true "payload"
// @Success  201 {object} AirplaneResponse
// @Router   /airplanes [post]
func handleCreateAirplane(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AirplaneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		a, err := svcs.Catalog.CreateAirplane(c.Request.Context(), catalog.AirplaneInput{
			Name:           req.Name,
			Rows:           req.Rows,
			SeatsInRow:     req.SeatsInRow,
			AirplaneTypeID: req.AirplaneTypeID,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toAirplaneResponse(a))
	}
}

// @Summary  Update airplane
// @Param    id  path  int  true  "Airplane ID"
// @Param    req body  AirplaneRequest true "payload"
// @Success  200 {object} AirplaneResponse
// @Router   /airplanes/{id} [put]
func handleUpdateAirplane(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AirplaneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		a, err := svcs.Catalog.UpdateAirplane(c.Request.Context(), id, catalog.AirplaneInput{
			Name:           req.Name,
			Rows:           req.Rows,
			SeatsInRow:     req.SeatsInRow,
			AirplaneTypeID: req.AirplaneTypeID,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toAirplaneResponse(a))
	}
}

// @Summary  Delete airplane
// @Param    id  path  int  true  "Airplane ID"
// @Success  204
// @Router   /airplanes/{id} [delete]
func handleDeleteAirplane(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteAirplane(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Upload airplane image
// @Accept   multipart/form-data
// @Param    id    path      int   true "Airplane ID"
// @Param    image formData  file  true "image file"
// @Success  200 {object} UploadImageResponse
// @Failure  400 {object} ErrorResponse "not an image"
// @Router   /airplanes/{id}/image [post]
func handleUploadAirplaneImage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}

		fh, err := c.FormFile("image")
		if err != nil {
			badRequest(c, "image file is required")
			return
		}
		if fh.Size > maxImageSize {
			badRequest(c, "image too large")
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondErr(c, err)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxImageSize))
		if err != nil {
			respondErr(c, err)
			return
		}

		url, err := svcs.Catalog.UploadAirplaneImage(c.Request.Context(), id, fh.Filename, data)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, UploadImageResponse{ImageURL: url})
	}
}

// @Summary  Create flight
// @Param    req body  FlightRequest true "payload"
// @Success  201 {object} FlightResponse
// @Failure  400 {object} ErrorResponse "bad schedule / missing crew"
// @Router   /flights [post]
func handleCreateFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FlightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		in, ok := flightInputFromRequest(c, req)
		if !ok {
			return
		}
		f, err := svcs.Catalog.CreateFlight(c.Request.Context(), in)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toFlightResponse(f))
	}
}

// @Summary  Update flight
// @Param    id  path  int  true  "Flight ID"
// @Param    req body  FlightRequest true "payload"
// @Success  200 {object} FlightResponse
// @Router   /flights/{id} [put]
func handleUpdateFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req FlightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		in, ok := flightInputFromRequest(c, req)
		if !ok {
			return
		}
		f, err := svcs.Catalog.UpdateFlight(c.Request.Context(), id, in)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toFlightResponse(f))
	}
}

// @Summary  Delete flight
// @Param    id  path  int  true  "Flight ID"
// @Success  204
// @Router   /flights/{id} [delete]
func handleDeleteFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		if err := svcs.Catalog.DeleteFlight(c.Request.Context(), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func flightInputFromRequest(c *gin.Context, req FlightRequest) (catalog.FlightInput, bool) {
	dep, err := parseRFC3339(req.DepartureTime)
	if err != nil {
		badRequest(c, "invalid departure_time (RFC3339)")
		return catalog.FlightInput{}, false
	}
	arr, err := parseRFC3339(req.ArrivalTime)
	if err != nil {
		badRequest(c, "invalid arrival_time (RFC3339)")
		return catalog.FlightInput{}, false
	}

	return catalog.FlightInput{
		RouteID:       req.RouteID,
		AirplaneID:    req.AirplaneID,
		DepartureTime: dep,
		ArrivalTime:   arr,
		CrewIDs:       req.CrewIDs,
	}, true
}
