package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusdesk/campusdesk-api/internal/models"
	"github.com/campusdesk/campusdesk-api/internal/service"
)

// InvalidateDashboards drops the caller's tenant dashboard snapshots
// after a successful mutating request, so the next dashboard read
// reflects the write. Failures are swallowed; the cache repopulates on
// TTL expiry regardless.
func InvalidateDashboards(cache *service.CacheService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Writer.Status() >= 400 {
			return
		}
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			return
		}
		claims := claimsValue.(*models.JWTClaims)
		if claims.CollegeCode == "" {
			return
		}
		_ = cache.InvalidateCollege(c.Request.Context(), claims.CollegeCode)
	}
}
