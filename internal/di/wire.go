//go:build wireinject
// +build wireinject

package di

import (
	"FundPull/pkg/config"
	"FundPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideEventStore,
		ProvideBiasStore,
		ProvideBiasPublisher,

		// Engine
		ProvideTables,
		ProvideCalendarIngest,
		ProvideMarketData,
		ProvideBiasRunner,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
