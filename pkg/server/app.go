package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PhasePulse/internal/usecase"
	"PhasePulse/pkg/config"
	xhttp "PhasePulse/pkg/http"
	"PhasePulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	warmer      *usecase.Warmer
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	logger      *logger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	handler xhttp.Handler,
	warmer *usecase.Warmer,
	log *logger.Logger,
) *App {
	return &App{
		cfg:         cfg,
		warmer:      warmer,
		httpHandler: handler,
		logger:      log,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
		xhttp.WithMetricsLogger(a.logger, 500*time.Millisecond),
	)

	if err := a.warmer.Start(ctx); err != nil {
		a.logger.Error("cache warmer start error", logger.Error(err))
		return err
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", logger.Error(err))
		return err
	}
	a.logger.Info("serving",
		logger.Int("port", a.cfg.Server.Port),
		logger.String("default_symbol", a.cfg.Market.DefaultSymbol),
		logger.Strings("symbols", a.cfg.Symbols),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.warmer.Stop(shutdownCtx); err != nil {
		a.logger.Warn("cache warmer stop error", logger.Error(err))
	}

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", logger.Error(err))
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}
