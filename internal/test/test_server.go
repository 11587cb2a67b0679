package test

import (
	"context"
	"testing"
	"time"

	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/api/router"
	"github/chapool/evm-wallet/internal/config"
)

// WithTestServer returns a fully configured server (using the default server config)
// and shuts it down after closure returns.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, config.DefaultServiceConfigFromEnv(), closure)
}

// WithTestServerConfigurable is WithTestServer with a caller supplied config
func WithTestServerConfigurable(t *testing.T, config config.Server, closure func(s *api.Server)) {
	t.Helper()

	s := NewTestServer(t, config)

	closure(s)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("Failed to shutdown server: %v", errs)
	}
}

// NewTestServer initializes and routes a server without starting the listener
func NewTestServer(t *testing.T, config config.Server) *api.Server {
	t.Helper()

	s, err := api.InitNewServer(config)
	if err != nil {
		t.Fatalf("Failed to init server: %v", err)
	}

	router.Init(s)

	return s
}
