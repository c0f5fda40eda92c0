//go:build wireinject
// +build wireinject

package di

import (
	"FxScore/pkg/config"
	"FxScore/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisClient,
		ProvideCache,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories and sinks
		ProvideSnapshotStore,
		ProvideHistory,
		ProvideResultPublisher,
		ProvideHub,
		ProvideResultSinks,

		// Use cases
		ProvideEngine,
		ProvideRecalculator,
		ProvideWorkspace,
		ProvideQueue,
		ProvideLogQueue,
		ProvideInputsHandler,

		// HTTP
		ProvideLimiter,
		ProvideScoringHandler,
		ProvideWorkspaceHandler,
		ProvideHistoryHandler,
		ProvideHealthHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
