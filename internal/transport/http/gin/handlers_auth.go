package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivklim/airport-api/internal/service"
)

// @Summary  Register a new user
// @Param    req body  RegisterRequest true "payload"
// @Success  201 {object} UserResponse
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "email already registered"
// @Router   /users/register [post]
func handleRegister(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		u, err := svcs.Auth.Register(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(u))
	}
}

// @Summary  Obtain an access token
// @Param    req body  LoginRequest true "payload"
// @Success  200 {object} TokenResponse
// @Failure  401 {object} ErrorResponse
// @Router   /users/login [post]
func handleLogin(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		token, err := svcs.Auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, TokenResponse{AccessToken: token})
	}
}

// @Summary  Current user profile
// @Success  200 {object} UserResponse
// @Failure  401 {object} ErrorResponse
// @Router   /users/me [get]
func handleMe(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svcs.Auth.Me(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(u))
	}
}
