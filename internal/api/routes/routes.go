package routes

import (
	"context"
	"net/http"

	"swcommons/internal/api/handlers"
	"swcommons/internal/api/middleware"
	"swcommons/internal/background"
	"swcommons/internal/config"
	"swcommons/internal/live"
	"swcommons/internal/records"
	"swcommons/internal/storage"

	"github.com/labstack/echo/v4"
)

// Dependencies are the collaborators the HTTP surface serves
type Dependencies struct {
	// Context bounds long-lived streams; cancel it on shutdown
	Context     context.Context
	Records     *records.Service
	Storage     storage.ObjectStorage
	Hub         *live.Hub
	TaskManager background.TaskManager
	// Checks run on /health/ready in addition to the store ping
	Checks []handlers.HealthCheck
}

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Dependencies) {
	ctx := deps.Context
	if ctx == nil {
		ctx = context.Background()
	}

	// Global middleware
	e.Use(middleware.RequestValidation(cfg.Server.BodyLimit))
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.TimeoutConfig(cfg.Server.WriteTimeout))
	e.Use(middleware.NewRateLimiter(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst).Middleware())

	checks := append([]handlers.HealthCheck{
		{Name: "store", Probe: deps.Records.Ping},
		{Name: "storage", Probe: deps.Storage.Health},
	}, deps.Checks...)

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(checks...))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Local object storage is served by this process
	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		accept := handlers.AcceptUploadHandler(local, cfg.UploadLimitBytes())
		e.POST("/uploads/:token", accept)
		e.PUT("/uploads/:token", accept)
		e.GET("/files/:storageId", handlers.FileHandler(local))
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.GET("/schema", handlers.SchemaHandler(deps.Records.Registry()))
		v1.GET("/schema/:collection", handlers.EntitySchemaHandler(deps.Records.Registry()))

		collections := v1.Group("/collections")
		{
			collections.GET("/:collection", handlers.ListHandler(deps.Records))
			collections.POST("/:collection", handlers.CreateHandler(deps.Records))
			collections.GET("/:collection/:id", handlers.GetHandler(deps.Records))
			collections.PUT("/:collection/:id", handlers.UpdateHandler(deps.Records))
			collections.DELETE("/:collection/:id", handlers.DeleteHandler(deps.Records))
		}

		v1.POST("/uploads", handlers.UploadURLHandler(deps.Storage))
		v1.GET("/files/:storageId/url", handlers.FileURLHandler(deps.Storage))

		v1.GET("/subscribe/:collection", handlers.SubscribeHandler(ctx, deps.Hub, deps.Records))

		if deps.TaskManager != nil {
			exports := v1.Group("/exports")
			{
				exports.POST("/:collection", handlers.ExportHandler(deps.TaskManager))
				exports.GET("/:processId", handlers.ExportStatusHandler(deps.TaskManager))
			}
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Social Work Commons",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}
