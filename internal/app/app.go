package app

import (
	"context"
	"log/slog"
	"net/http"

	"todo-admin-service/internal/config"
	"todo-admin-service/internal/observability"
)

type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Server  *http.Server
	Runtime *observability.Runtime
}

func New(cfg *config.Config, logger *slog.Logger, server *http.Server, runtime *observability.Runtime) *App {
	return &App{Config: cfg, Logger: logger, Server: server, Runtime: runtime}
}

// Shutdown stops the HTTP server, then flushes the telemetry runtime.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Server.Shutdown(ctx)
	if a.Runtime != nil {
		if rtErr := a.Runtime.Shutdown(ctx); err == nil {
			err = rtErr
		}
	}
	return err
}
