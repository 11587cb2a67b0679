//go:build wireinject

package api

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github/chapool/evm-wallet/internal/config"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewI18N,
	NewMetrics,
	NewBroadcaster,
	NewSigner,
	NewScan,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewPrometheusRegistry)
	return new(Server), nil
}

// InitNewServerWithRegistry returns a new Server instance exporting its
// metrics through the given registry.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithRegistry(
	_ config.Server,
	_ *prometheus.Registry,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
