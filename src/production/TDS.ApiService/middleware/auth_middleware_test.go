package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	jwt "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/implementation/jwt"
	"gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.ApiService/middleware"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
)

func newTestRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := jwt.NewService(api_models.Config{
		SecretKey:     "test-secret-key",
		TokenDuration: time.Hour,
		Issuer:        "test",
	})
	mw := middleware.NewAuthMiddleware(jwtSvc)

	router := gin.New()
	router.GET("/protected", mw.Authenticate(), func(c *gin.Context) {
		userID, _ := middleware.GetUserFromGinContext(c)
		role, _ := middleware.GetRoleFromGinContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	router.GET("/admin", mw.Authenticate(), mw.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	// RequireRole without a prior Authenticate must never let a
	// request through
	router.GET("/misconfigured", mw.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router, jwtSvc
}

func doGet(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := doGet(router, "/protected", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := doGet(router, "/protected", "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: status = %d, want 401", w.Code)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	router, _ := newTestRouter(t)

	expired := jwt.NewService(api_models.Config{
		SecretKey:     "test-secret-key",
		TokenDuration: -time.Minute,
		Issuer:        "test",
	})
	token, err := expired.Issue("user-1", "admin")
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	if w := doGet(router, "/protected", token); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: status = %d, want 401", w.Code)
	}
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	router, jwtSvc := newTestRouter(t)

	token, err := jwtSvc.Issue("user-1", "user")
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	w := doGet(router, "/protected", token)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "user-1") {
		t.Errorf("response missing user identity: %s", w.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	router, jwtSvc := newTestRouter(t)

	userToken, _ := jwtSvc.Issue("user-1", "user")
	adminToken, _ := jwtSvc.Issue("user-2", "admin")

	if w := doGet(router, "/admin", userToken); w.Code != http.StatusForbidden {
		t.Errorf("user token on admin route: status = %d, want 403", w.Code)
	}
	if w := doGet(router, "/admin", adminToken); w.Code != http.StatusOK {
		t.Errorf("admin token on admin route: status = %d, want 200", w.Code)
	}
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	router, jwtSvc := newTestRouter(t)

	token, _ := jwtSvc.Issue("user-2", "admin")
	if w := doGet(router, "/misconfigured", token); w.Code != http.StatusUnauthorized {
		t.Errorf("role check without authenticate: status = %d, want 401", w.Code)
	}
}
