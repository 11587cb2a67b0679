package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/api/httperrors"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/wallet"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

type PostGeneratePayload struct {
	Mnemonic     string `json:"mnemonic"`
	Passphrase   string `json:"passphrase,omitempty"`
	AccountIndex uint32 `json:"accountIndex"`
}

type GenerateResponse struct {
	Success bool                `json:"success"`
	Account *wallet.AccountInfo `json:"account"`
}

// PostGenerateRoute derives the public account of a mnemonic. Keys never
// leave the process.
func PostGenerateRoute(s *api.Server) *echo.Route {
	return s.Router.APIWallet.POST("/generate", postGenerateHandler(s))
}

func postGenerateHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := util.LogFromEchoContext(c)

		var body PostGeneratePayload
		if err := c.Bind(&body); err != nil {
			return err
		}

		if body.Mnemonic == "" {
			return httperrors.NewFromError(walleterr.NewField(walleterr.CodeMissingFields, "Mnemonic is required", "mnemonic"))
		}

		w := wallet.New(wallet.Config{
			Broadcaster: s.Broadcaster,
			Signer:      s.Signer,
			Metrics:     s.Metrics,
		})
		defer w.Dispose()

		if err := w.CreateFromMnemonicWithPassphrase(body.Mnemonic, body.Passphrase); err != nil {
			return httperrors.NewFromError(err)
		}

		account, err := w.GetAccountInfo(body.AccountIndex)
		if err != nil {
			return httperrors.NewFromError(err)
		}

		log.Debug().Str("address", account.Address).Uint32("index", account.Index).Msg("Derived account")

		return c.JSON(http.StatusOK, &GenerateResponse{
			Success: true,
			Account: account,
		})
	}
}
