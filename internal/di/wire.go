//go:build wireinject
// +build wireinject

package di

import (
	"PriceSigner/pkg/config"
	"PriceSigner/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,

		// Repositories and services
		ProvideAuditPublisher,
		ProvideSigner,
		ProvideOrderDecoder,
		ProvidePriceFeed,

		// Use cases
		ProvideAttestor,

		// Transport
		ProvideContextHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
