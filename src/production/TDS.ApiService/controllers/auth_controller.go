package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	service "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/implementation/auth"
	"gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/middleware"
	logger "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Logger"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
	interfaces "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Repository/Interfaces"
)

// AuthController handles authentication requests
type AuthController struct {
	authService *service.AuthService
	logger      *logger.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *service.AuthService, logger *logger.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles account registration. The requested role is honored,
// including admin; an empty role defaults to user.
func (h *AuthController) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api_models.Fail("Invalid request body"))
		return
	}

	data, err := h.authService.Signup(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrDuplicateEmail):
			c.JSON(http.StatusBadRequest, api_models.Fail("User already exists"))
		case errors.Is(err, service.ErrMissingFields), errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, api_models.Fail(err.Error()))
		default:
			h.logger.ErrorWithError(err, "signup failed")
			c.JSON(http.StatusInternalServerError, api_models.Fail("Server error"))
		}
		return
	}

	c.JSON(http.StatusCreated, api_models.Ok(data))
}

// Login handles user login
func (h *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api_models.Fail("Invalid request body"))
		return
	}

	data, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api_models.Fail("Invalid credentials"))
			return
		}
		h.logger.ErrorWithError(err, "login failed")
		c.JSON(http.StatusInternalServerError, api_models.Fail("Server error"))
		return
	}

	c.JSON(http.StatusOK, api_models.Ok(data))
}

// Me returns the authenticated user's account
func (h *AuthController) Me(c *gin.Context) {
	userID, err := middleware.GetUserFromGinContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api_models.Fail("Not authorized to access this route"))
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, api_models.Fail("Not authorized to access this route"))
			return
		}
		h.logger.ErrorWithError(err, "failed to load account")
		c.JSON(http.StatusInternalServerError, api_models.Fail("Server error"))
		return
	}

	c.JSON(http.StatusOK, api_models.Ok(user))
}

// RegisterRoutes registers the auth routes with Gin
func (h *AuthController) RegisterRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", h.Signup)
		auth.POST("/login", h.Login)
	}

	protected := auth.Group("", authMiddleware.Authenticate())
	{
		protected.GET("/me", h.Me)
	}
}
