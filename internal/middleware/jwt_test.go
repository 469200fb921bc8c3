package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campusdesk/campusdesk-api/internal/models"
	"github.com/campusdesk/campusdesk-api/internal/service"
)

const testSecret = "middleware-test-secret"

func newTestAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, nil, nil, service.AuthConfig{
		TokenSecret: testSecret,
		TokenExpiry: time.Hour,
		Issuer:      "campusdesk-api",
	})
}

func signTestToken(t *testing.T, claims *models.JWTClaims) string {
	t.Helper()
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func protectedRouter(authService *service.AuthService) *gin.Engine {
	router := gin.New()
	router.Use(JWT(authService))
	router.GET("/protected", func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return router
}

func TestJWTMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := protectedRouter(newTestAuthService())

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestJWTMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := protectedRouter(newTestAuthService())

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestJWTValidTokenSetsClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := protectedRouter(newTestAuthService())

	token := signTestToken(t, &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin, CollegeCode: "CLG001"})
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body: %s", recorder.Code, recorder.Body.String())
	}
}

func TestJWTRejectsTokenWithoutTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := protectedRouter(newTestAuthService())

	token := signTestToken(t, &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin})
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}
