package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwt "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/implementation/jwt"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
	auth_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/auth"
)

// Context keys for authenticated request data
const (
	UserIDContextKey   = "user_id"
	UserRoleContextKey = "user_role"
)

// AuthMiddleware provides the two ordered guard stages: Authenticate
// establishes identity, RequireRole enforces it. RequireRole assumes
// Authenticate already ran on the route.
type AuthMiddleware struct {
	jwtService *jwt.Service
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// extractToken gets the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

// Authenticate verifies the session token and attaches the user's
// identity and role to the request context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, api_models.Fail("Not authorized to access this route"))
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			msg := "Not authorized to access this route"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "Session expired, please log in again"
			}
			c.JSON(http.StatusUnauthorized, api_models.Fail(msg))
			c.Abort()
			return
		}

		c.Set(UserIDContextKey, claims.UserID)
		c.Set(UserRoleContextKey, claims.Role)

		c.Next()
	}
}

// RequireRole ensures the authenticated user carries the given role
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, err := GetRoleFromGinContext(c)
		if err != nil {
			// Authenticate did not run or failed; never reach the
			// role check without an identity.
			c.JSON(http.StatusUnauthorized, api_models.Fail("Not authorized to access this route"))
			c.Abort()
			return
		}

		if userRole != role {
			c.JSON(http.StatusForbidden, api_models.Fail("Not authorized to perform this action"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin ensures the authenticated user is an admin
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(auth_models.RoleAdmin)
}

// GetUserFromGinContext retrieves the user ID from the Gin context
func GetUserFromGinContext(c *gin.Context) (string, error) {
	userIDVal, exists := c.Get(UserIDContextKey)
	if !exists {
		return "", errors.New("user not found in context")
	}

	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", errors.New("invalid user ID format in context")
	}

	return userID, nil
}

// GetRoleFromGinContext retrieves the user role from the Gin context
func GetRoleFromGinContext(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(UserRoleContextKey)
	if !exists {
		return "", errors.New("role not found in context")
	}

	role, ok := roleVal.(string)
	if !ok || role == "" {
		return "", errors.New("invalid role format in context")
	}

	return role, nil
}
