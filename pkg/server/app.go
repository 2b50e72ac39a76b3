package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CafePull/pkg/cache"
	"CafePull/pkg/config"
	xhttp "CafePull/pkg/http"
	xlogger "CafePull/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server start, signal
// handling and graceful shutdown.
type App struct {
	cfg        *config.Config
	logger     *xlogger.Logger
	cache      cache.Service
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates an App instance with all dependencies injected.
func New(cfg *config.Config, logger *xlogger.Logger, cacheSvc cache.Service, handler xhttp.Handler) *App {
	return &App{
		cfg:     cfg,
		logger:  logger,
		cache:   cacheSvc,
		handler: handler,
	}
}

// Run starts the HTTP server and blocks until an interrupt arrives.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		xlogger.Int("port", a.cfg.Server.Port),
		xlogger.String("cache_backend", a.cfg.Cache.Backend),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops the HTTP server and closes the cache backend.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.logger.Warn("cache close error", xlogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
