package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk-api/internal/models"
)

func rbacRouter(claims *models.JWTClaims, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	if claims != nil {
		router.Use(func(c *gin.Context) {
			c.Set(ContextUserKey, claims)
		})
	}
	router.Use(handler)
	router.GET("/resource/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func performRBAC(router *gin.Engine, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRBACAllowsListedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	claims := &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin, CollegeCode: "CLG001"}
	router := rbacRouter(claims, RequireRoles(models.RoleAdmin))

	if code := performRBAC(router, "/resource/anything").Code; code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", code)
	}
}

func TestRBACForbidsUnlistedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	claims := &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent, CollegeCode: "CLG001"}
	router := rbacRouter(claims, RequireRoles(models.RoleAdmin, models.RoleTeacher))

	if code := performRBAC(router, "/resource/anything").Code; code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", code)
	}
}

func TestRBACSelfMarkerMatchesOwnID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	claims := &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent, CollegeCode: "CLG001", StudentID: "student-1"}
	router := rbacRouter(claims, RBAC(string(models.RoleAdmin), SelfMarker))

	if code := performRBAC(router, "/resource/user-1").Code; code != http.StatusNoContent {
		t.Fatalf("expected self user id to pass, got %d", code)
	}
	if code := performRBAC(router, "/resource/student-1").Code; code != http.StatusNoContent {
		t.Fatalf("expected self student id to pass, got %d", code)
	}
	if code := performRBAC(router, "/resource/user-2").Code; code != http.StatusForbidden {
		t.Fatalf("expected foreign id to be forbidden, got %d", code)
	}
}

func TestRBACWithoutClaimsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := rbacRouter(nil, RequireRoles(models.RoleAdmin))

	if code := performRBAC(router, "/resource/anything").Code; code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", code)
	}
}
