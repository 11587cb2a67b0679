package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/api/handlers/common"
	"github/chapool/evm-wallet/internal/api/handlers/networks"
	"github/chapool/evm-wallet/internal/api/handlers/transaction"
	"github/chapool/evm-wallet/internal/api/handlers/wallet"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		networks.GetNetworksRoute(s),
		networks.GetNetworkStatusRoute(s),
		transaction.PostSignRoute(s),
		wallet.PostGenerateRoute(s),
	}

	if s.Config.Management.EnableMetrics {
		s.Router.Routes = append(s.Router.Routes, common.GetMetricsRoute(s))
	}
}
