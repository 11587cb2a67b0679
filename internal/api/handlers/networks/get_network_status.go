package networks

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/api/httperrors"
	"github/chapool/evm-wallet/internal/wallet/scan"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

type NetworkStatusResponse struct {
	Success         bool                    `json:"success"`
	Status          *scan.NetworkStatus     `json:"status"`
	Recommendations scan.GasRecommendations `json:"gasRecommendations"`
}

func GetNetworkStatusRoute(s *api.Server) *echo.Route {
	return s.Router.APINetworks.GET("/:chainId/status", getNetworkStatusHandler(s))
}

func getNetworkStatusHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		chainID, err := strconv.ParseInt(c.Param("chainId"), 10, 64)
		if err != nil || chainID <= 0 {
			return httperrors.NewFromError(walleterr.NewField(walleterr.CodeInvalidChainID, "Invalid chain ID", "chainId"))
		}

		status := s.Scan.NetworkStatus(c.Request().Context(), chainID)

		gasPrice, ok := new(big.Int).SetString(status.GasInfo.GasPrice, 10)
		if !ok {
			gasPrice = scan.UnknownNetworkGasPrice
		}

		return c.JSON(http.StatusOK, &NetworkStatusResponse{
			Success:         true,
			Status:          status,
			Recommendations: scan.GasPriceRecommendations(gasPrice),
		})
	}
}
