// Package apitest runs the full HTTP surface over in-memory collaborators
// for handler and client tests.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"swcommons/internal/api/routes"
	"swcommons/internal/background"
	"swcommons/internal/config"
	"swcommons/internal/exporter"
	"swcommons/internal/live"
	"swcommons/internal/logging"
	"swcommons/internal/records"
	"swcommons/internal/storage"
	"swcommons/internal/store"
)

// Server is a running test instance
type Server struct {
	*httptest.Server

	Config  *config.Config
	Records *records.Service
	Storage *storage.LocalStorage
	Hub     *live.Hub
	Tasks   *background.TaskManagerImpl
}

// New starts a server backed by a memory store and a temp-dir object store.
// mutate adjusts the configuration before routes are built.
func New(t testing.TB, mutate ...func(*config.Config)) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Server.RateLimit.RequestsPerSecond = 1000
	cfg.Server.RateLimit.Burst = 1000
	cfg.Storage.Local.Dir = t.TempDir()
	cfg.Background.MaxWorkers = 2
	for _, fn := range mutate {
		fn(cfg)
	}

	e := echo.New()
	e.HideBanner = true
	srv := httptest.NewServer(e)

	objects, err := storage.NewLocalStorage(cfg.Storage.Local.Dir, srv.URL, cfg.Storage.UploadTTL)
	if err != nil {
		srv.Close()
		t.Fatalf("local storage: %v", err)
	}

	hub := live.NewHub(logging.Discard())
	svc := records.NewService(store.WithNotifier(store.NewMemoryStore(), hub), nil, objects, logging.Discard())

	tasks := background.NewTaskManager(cfg, exporter.New(svc, svc.Registry(), objects))
	ctx, cancel := context.WithCancel(context.Background())
	if err := tasks.Start(ctx); err != nil {
		cancel()
		srv.Close()
		t.Fatalf("start task manager: %v", err)
	}

	routes.SetupRoutes(e, cfg, routes.Dependencies{
		Context:     ctx,
		Records:     svc,
		Storage:     objects,
		Hub:         hub,
		TaskManager: tasks,
	})

	t.Cleanup(func() {
		cancel()
		srv.Close()
		stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = tasks.Stop(stopCtx)
	})

	return &Server{
		Server:  srv,
		Config:  cfg,
		Records: svc,
		Storage: objects,
		Hub:     hub,
		Tasks:   tasks,
	}
}
