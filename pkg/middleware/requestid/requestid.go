package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the request ID on both request and response.
const Header = "X-Request-ID"

const contextKey = "request_id"

// Middleware tags every request with an ID so log lines can be tied
// back to one call. A caller-supplied X-Request-ID is kept as-is,
// otherwise a fresh UUID is issued, and either way the ID is echoed on
// the response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value returns the request ID for the current request, or "" when the
// middleware did not run.
func Value(c *gin.Context) string {
	id, _ := c.Value(contextKey).(string)
	return id
}
