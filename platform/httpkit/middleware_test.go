package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"offerdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func TestRequestID_PropagatesToRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())

	var got string
	engine.GET("/x", func(c *gin.Context) {
		got, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if got != "req-123" {
		t.Fatalf("expected request id on the request context, got %q", got)
	}
	if w.Header().Get("X-Request-ID") != "req-123" {
		t.Fatalf("expected echoed request id header, got %q", w.Header().Get("X-Request-ID"))
	}
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a generated request id header")
	}
}

func TestAdminKey_UniformForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/admin", AdminKey("secret"), func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name string
		url  string
		want int
	}{
		{"missing key", "/admin", http.StatusForbidden},
		{"wrong key", "/admin?key=nope", http.StatusForbidden},
		{"right key", "/admin?key=secret", http.StatusOK},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.url, nil))
		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
	}
}
