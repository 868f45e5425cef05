package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swcommons/internal/logging"
)

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestValidation(t *testing.T) {
	e := echo.New()
	e.Use(RequestValidation("16B"))
	var seen string
	handler := func(c echo.Context) error {
		seen = logging.RequestIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	}
	e.POST("/api/v1/collections/:collection", handler)
	e.POST("/uploads/:token", handler)

	t.Run("incoming request id is kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/collections/jobs", strings.NewReader("{}"))
		req.Header.Set(echo.HeaderXRequestID, "req-123")
		rec := serve(e, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
		assert.Equal(t, "req-123", seen)
	})

	t.Run("request id is generated", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/v1/collections/jobs", strings.NewReader("{}")))
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("oversized body", func(t *testing.T) {
		body := strings.NewReader(strings.Repeat("x", 64))
		rec := serve(e, httptest.NewRequest(http.MethodPost, "/api/v1/collections/jobs", body))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation_error")
	})

	t.Run("uploads carry their own limit", func(t *testing.T) {
		body := strings.NewReader(strings.Repeat("x", 64))
		rec := serve(e, httptest.NewRequest(http.MethodPost, "/uploads/token", body))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.logger = logging.Discard()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "clients are limited independently")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"), "tokens refill over time")

	now = now.Add(time.Hour)
	rl.Allow("10.0.0.3")
	rl.mu.Lock()
	_, kept := rl.clients["10.0.0.1"]
	rl.mu.Unlock()
	assert.False(t, kept, "idle clients are pruned")
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	rl.logger = logging.Discard()

	e := echo.New()
	e.Use(rl.Middleware())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/x", ok)
	e.DELETE("/x", ok)

	require.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodDelete, "/x", nil)).Code)
	rec := serve(e, httptest.NewRequest(http.MethodDelete, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limited")
	assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}
