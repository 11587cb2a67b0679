package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/util"
)

// statusNotReady is returned while a component is missing or no broadcast
// provider is healthy
const statusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			util.LogFromEchoContext(c).Warn().Msg("Readiness check failed, server is not fully initialized")
			return c.String(statusNotReady, "Not ready.")
		}

		for _, provider := range s.Broadcaster.Providers() {
			if provider.IsHealthy {
				return c.String(http.StatusOK, "Ready.")
			}
		}

		util.LogFromEchoContext(c).Warn().Msg("Readiness check failed, no healthy broadcast provider")
		return c.String(statusNotReady, "Not ready.")
	}
}
