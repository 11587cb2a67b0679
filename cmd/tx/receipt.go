package tx

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/util/command"
	"github/chapool/evm-wallet/internal/wallet/broadcast"
)

const (
	waitFlag = "wait"

	pollInterval = 2 * time.Second
)

func NewReceipt() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt <tx-hash>",
		Short: "Prints the receipt of a transaction",
		Long: `Queries the configured providers for a transaction receipt

Without --wait a pending transaction prints null.`,
		Args: cobra.ExactArgs(1),
		RunE: runReceipt,
	}
	cmd.Flags().Duration(waitFlag, 0, "Poll until the receipt is available or the duration has passed")

	return cmd
}

func runReceipt(cmd *cobra.Command, args []string) error {
	wait, err := cmd.Flags().GetDuration(waitFlag)
	if err != nil {
		return errors.Wrap(err, "failed to read wait flag")
	}

	cfg := config.DefaultServiceConfigFromEnv()
	util.ConfigureLogger(cfg.Logger.Level, cfg.Logger.PrettyPrintConsole)
	broadcaster := api.NewBroadcaster(cfg, nil)

	deadline := time.Now().Add(wait)
	for {
		receipt, err := broadcaster.GetTransactionReceipt(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if receipt != nil || !time.Now().Before(deadline) {
			return printReceipt(cmd, receipt)
		}

		select {
		case <-cmd.Context().Done():
			return errors.Wrap(cmd.Context().Err(), "stopped waiting for receipt")
		case <-time.After(pollInterval):
		}
	}
}

func printReceipt(cmd *cobra.Command, receipt *broadcast.Receipt) error {
	if receipt == nil {
		return command.PrintJSON(cmd, nil)
	}

	return command.PrintJSON(cmd, struct {
		*broadcast.Receipt
		Succeeded bool `json:"succeeded"`
	}{receipt, receipt.Succeeded()})
}
