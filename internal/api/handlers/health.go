package handlers

import (
	"context"
	"net/http"
	"time"

	"swcommons/internal/api/middleware"
	"swcommons/internal/logging"
	"swcommons/pkg/models"

	"github.com/labstack/echo/v4"
)

// Version is reported by health endpoints; set with -ldflags at build time
var Version = "1.0.0"

var startTime = time.Now()

// HealthCheck probes one dependency of the server
type HealthCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logger := logging.LogWithRequestID(middleware.RequestID(c))
	logger.Debug("Health check requested")

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler runs every check and reports 503 if any fails
func ReadinessHandler(checks ...HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.LogWithRequestID(middleware.RequestID(c))
		logger.Debug("Readiness check requested")

		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		response := models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    map[string]string{"api": "ok"},
		}
		for _, check := range checks {
			if err := check.Probe(ctx); err != nil {
				response.Checks[check.Name] = err.Error()
				response.Status = "not_ready"
				status = http.StatusServiceUnavailable
				logger.Warn("Readiness check failed", map[string]interface{}{
					"check": check.Name,
					"error": err.Error(),
				})
				continue
			}
			response.Checks[check.Name] = "ok"
		}

		return c.JSON(status, response)
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}
