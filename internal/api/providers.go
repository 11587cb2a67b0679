package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/i18n"
	"github/chapool/evm-wallet/internal/metrics"
	"github/chapool/evm-wallet/internal/wallet/broadcast"
	"github/chapool/evm-wallet/internal/wallet/chain"
	"github/chapool/evm-wallet/internal/wallet/scan"
	"github/chapool/evm-wallet/internal/wallet/signer"
)

// PROVIDERS - https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewPrometheusRegistry returns a registry private to one server so several
// servers (tests) never collide on registration
func NewPrometheusRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func NewMetrics(registry *prometheus.Registry) *metrics.Service {
	return metrics.NewWithRegistry(registry)
}

func NewI18N(cfg config.Server) (*i18n.Service, error) {
	return i18n.New(cfg.I18n.DefaultLanguage)
}

func NewBroadcaster(cfg config.Server, m *metrics.Service) *broadcast.Broadcaster {
	providers := make([]broadcast.Provider, 0, len(cfg.Broadcast.Providers))
	for i, endpoint := range cfg.Broadcast.Providers {
		providers = append(providers, broadcast.Provider{
			Name:      endpoint.Name,
			URL:       endpoint.URL,
			Priority:  i + 1,
			IsHealthy: true,
		})
	}

	return broadcast.New(broadcast.Config{
		Providers:      providers,
		Timeout:        cfg.Broadcast.Timeout,
		ReceiptTimeout: cfg.Broadcast.ReceiptTimeout,
		Recorder:       m,
	})
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewSigner() SignerService {
	return signer.NewService()
}

//nolint:ireturn // Returning interface is intentional for dependency injection
func NewScan(cfg config.Server) ScanService {
	timeout := cfg.Broadcast.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return scan.NewService(chain.GetChain, timeout)
}
