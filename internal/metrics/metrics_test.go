package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-wallet/internal/metrics"
)

func TestObserveAttempt(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	m.ObserveAttempt("Ankr", metrics.OutcomeFailure, "RATE_LIMITED")
	m.ObserveAttempt("Ankr", metrics.OutcomeFailure, "RATE_LIMITED")
	m.ObserveAttempt("Ankr", metrics.OutcomeSuccess, "")

	assert.InDelta(t, 2, testutil.ToFloat64(m.BroadcastAttempts.WithLabelValues("Ankr", metrics.OutcomeFailure, "RATE_LIMITED")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BroadcastAttempts.WithLabelValues("Ankr", metrics.OutcomeSuccess, "")), 0)
}

func TestProviderHealth(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	m.SetProviderHealth("Cloudflare", false)
	assert.InDelta(t, 0, testutil.ToFloat64(m.ProviderHealthy.WithLabelValues("Cloudflare")), 0)

	m.SetProviderHealth("Cloudflare", true)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderHealthy.WithLabelValues("Cloudflare")), 0)
}

func TestNilServiceIsNoop(t *testing.T) {
	var m *metrics.Service
	m.ObserveAttempt("a", metrics.OutcomeSuccess, "")
	m.SetProviderHealth("a", true)
	m.ObserveSigned("1")
}

func TestHandler(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	m.ObserveSigned("1")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `wallet_signed_transactions_total{chain_id="1"} 1`))
}
