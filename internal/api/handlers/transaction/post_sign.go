package transaction

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/api/httperrors"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/wallet"
	"github/chapool/evm-wallet/internal/wallet/signer"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

type SignResponse struct {
	Success           bool                      `json:"success"`
	SignedTransaction *signer.SignedTransaction `json:"signedTransaction"`
	// TxHash is null unless the transaction was broadcast
	TxHash    *string  `json:"txHash"`
	Broadcast bool     `json:"broadcast"`
	Warnings  []string `json:"warnings,omitempty"`
}

// PostSignRoute builds, signs and optionally broadcasts a transaction with a
// wallet that lives only for the request
func PostSignRoute(s *api.Server) *echo.Route {
	return s.Router.APITransaction.POST("/sign", postSignHandler(s))
}

func postSignHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body wallet.Request
		if err := c.Bind(&body); err != nil {
			return err
		}

		if body.Mnemonic == "" {
			return httperrors.NewFromError(walleterr.NewField(walleterr.CodeMissingFields, "Mnemonic is required for signing", "mnemonic"))
		}

		result, err := wallet.SignOnce(ctx, wallet.Config{
			Broadcaster: s.Broadcaster,
			Signer:      s.Signer,
			Metrics:     s.Metrics,
		}, body)
		if err != nil {
			return httperrors.NewFromError(err)
		}

		response := &SignResponse{
			Success:           true,
			SignedTransaction: result.Signed,
			Broadcast:         body.Broadcast,
			Warnings:          result.Warnings,
		}
		if result.TxHash != "" {
			response.TxHash = &result.TxHash
		}

		log.Info().
			Str("tx_hash", result.Signed.Hash).
			Bool("broadcast", body.Broadcast).
			Msg("Transaction signed")

		return c.JSON(http.StatusOK, response)
	}
}
