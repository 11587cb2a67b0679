package networks

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/wallet/chain"
)

type NetworksResponse struct {
	Success        bool            `json:"success"`
	DefaultNetwork string          `json:"defaultNetwork"`
	Networks       []chain.Network `json:"networks"`
}

func GetNetworksRoute(s *api.Server) *echo.Route {
	return s.Router.APINetworks.GET("", getNetworksHandler(s))
}

func getNetworksHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, &NetworksResponse{
			Success:        true,
			DefaultNetwork: s.Config.Wallet.DefaultNetwork,
			Networks:       chain.ListChains(),
		})
	}
}
