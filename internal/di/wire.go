//go:build wireinject
// +build wireinject

package di

import (
	"PhasePulse/pkg/config"
	"PhasePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Caches
		ProvideBarCache,
		ProvideSpectrumCache,

		// Upstream protection
		ProvideRateLimiter,
		ProvideBreaker,

		// Bar sources
		ProvideBarSource,
		ProvideFallback,

		// Analysis
		ProvideEngine,
		ProvideAnalyzer,

		// Use cases
		ProvideSignalService,
		ProvidePool,
		ProvideWarmer,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
