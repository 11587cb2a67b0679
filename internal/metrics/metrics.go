package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Service holds the wallet's Prometheus collectors
type Service struct {
	registry   prometheus.Gatherer
	registerer prometheus.Registerer

	BroadcastAttempts *prometheus.CounterVec
	ProviderHealthy   *prometheus.GaugeVec
	SignedTotal       *prometheus.CounterVec
}

// New registers the wallet collectors with the default registry
func New() *Service {
	return NewWithRegistry(nil)
}

// NewWithRegistry registers the wallet collectors with registry. Tests pass a
// fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegistry(registry *prometheus.Registry) *Service {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if registry != nil {
		registerer = registry
		gatherer = registry
	}
	factory := promauto.With(registerer)

	return &Service{
		registry:   gatherer,
		registerer: registerer,
		BroadcastAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_broadcast_attempts_total",
			Help: "Number of eth_sendRawTransaction attempts per provider",
		}, []string{"provider", "outcome", "code"}),
		ProviderHealthy: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wallet_provider_healthy",
			Help: "1 if the broadcast provider is considered healthy",
		}, []string{"provider"}),
		SignedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_signed_transactions_total",
			Help: "Number of transactions signed per chain id",
		}, []string{"chain_id"}),
	}
}

// ObserveAttempt counts a broadcast attempt. code is empty on success.
func (s *Service) ObserveAttempt(provider string, outcome string, code string) {
	if s == nil {
		return
	}
	s.BroadcastAttempts.WithLabelValues(provider, outcome, code).Inc()
}

// SetProviderHealth records the current health flag of a provider
func (s *Service) SetProviderHealth(provider string, healthy bool) {
	if s == nil {
		return
	}
	value := 0.0
	if healthy {
		value = 1
	}
	s.ProviderHealthy.WithLabelValues(provider).Set(value)
}

// ObserveSigned counts a signed transaction
func (s *Service) ObserveSigned(chainID string) {
	if s == nil {
		return
	}
	s.SignedTotal.WithLabelValues(chainID).Inc()
}

// Handler serves the collectors in the Prometheus text format
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}

// Registerer returns the registry further collectors (HTTP middleware) must
// register with
func (s *Service) Registerer() prometheus.Registerer {
	return s.registerer
}
