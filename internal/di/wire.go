//go:build wireinject
// +build wireinject

package di

import (
	"FinSight/pkg/config"
	"FinSight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideDataCache,
		ProvideEventSink,

		// Upstream clients
		ProvideMarketData,
		ProvideAdvisory,

		// Domain services
		ProvideCatalog,
		ProvideCatalogRepo,
		ProvideResolver,
		ProvideSessions,

		// Use cases
		ProvideAdvisorUsecase,

		// HTTP handlers
		ProvideAdvisorHandler,
		ProvideStreamHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
