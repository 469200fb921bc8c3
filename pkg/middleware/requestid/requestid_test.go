package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) {
		*capture = Value(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestIssuesIDWhenHeaderMissing(t *testing.T) {
	var seen string
	r := newRouter(&seen)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seen == "" {
		t.Fatal("handler saw no request id")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("request id %q is not a uuid: %v", seen, err)
	}
	if got := rec.Header().Get(Header); got != seen {
		t.Fatalf("response header %q, handler saw %q", got, seen)
	}
}

func TestKeepsCallerSuppliedID(t *testing.T) {
	var seen string
	r := newRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(Header, "trace-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen != "trace-42" {
		t.Fatalf("handler saw %q, want trace-42", seen)
	}
	if got := rec.Header().Get(Header); got != "trace-42" {
		t.Fatalf("response header %q, want trace-42", got)
	}
}

func TestValueOutsideMiddlewareIsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := Value(c); got != "" {
		t.Fatalf("Value = %q, want empty", got)
	}
}
