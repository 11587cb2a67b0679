package tx

import (
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/util/command"
)

func NewBroadcast() *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast <raw-transaction>",
		Short: "Broadcasts a signed raw transaction",
		Long: `Submits a 0x prefixed signed transaction to the configured providers
(WALLET_BROADCAST_PROVIDERS) in priority order, failing over on transient errors`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()
			util.ConfigureLogger(cfg.Logger.Level, cfg.Logger.PrettyPrintConsole)

			txHash, err := api.NewBroadcaster(cfg, nil).BroadcastRaw(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return command.PrintJSON(cmd, map[string]string{"txHash": txHash})
		},
	}
}
