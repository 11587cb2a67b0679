package network

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/util/command"
	"github/chapool/evm-wallet/internal/wallet/chain"
	"github/chapool/evm-wallet/internal/wallet/scan"
	"github/chapool/evm-wallet/internal/wallet/validate"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("network",
		newList(),
		newStatus(),
		newAccount(),
	)
}

func newList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists the known networks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.PrintJSON(cmd, chain.ListChains())
		},
	}
}

func newStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status [network-name|chain-id]",
		Short: "Prints gas price, block height and gas recommendations of a network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			name := cfg.Wallet.DefaultNetwork
			if len(args) == 1 {
				name = args[0]
			}
			chainID, err := resolve(name)
			if err != nil {
				return err
			}

			status := api.NewScan(cfg).NetworkStatus(cmd.Context(), chainID)
			output := struct {
				*scan.NetworkStatus
				Recommendations *scan.GasRecommendations `json:"gasRecommendations,omitempty"`
			}{NetworkStatus: status}

			if status.IsConnected {
				recommendations := scan.GasPriceRecommendations(parseWei(status.GasInfo.GasPrice))
				output.Recommendations = &recommendations
			}

			return command.PrintJSON(cmd, output)
		},
	}
}

func newAccount() *cobra.Command {
	return &cobra.Command{
		Use:   "account <address> [network-name|chain-id]",
		Short: "Prints nonce and balance of an address",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultServiceConfigFromEnv()

			address, err := validate.ValidateAddress(args[0])
			if err != nil {
				return err
			}

			name := cfg.Wallet.DefaultNetwork
			if len(args) == 2 {
				name = args[1]
			}
			chainID, err := resolve(name)
			if err != nil {
				return err
			}
			network, ok := chain.GetChain(chainID)
			if !ok {
				return errors.Errorf("unsupported chain id %d", chainID)
			}

			return command.PrintJSON(cmd, api.NewScan(cfg).AccountInfo(cmd.Context(), network.RPCURL, address))
		},
	}
}

// resolve accepts a registry name or a numeric chain id
func resolve(nameOrID string) (int64, error) {
	if network, ok := chain.GetByName(nameOrID); ok {
		return network.ChainID, nil
	}

	chainID, err := strconv.ParseInt(nameOrID, 10, 64)
	if err != nil {
		return 0, errors.Errorf("unknown network %q, expected a chain id or one of %v", nameOrID, chain.NetworkNames())
	}
	return chainID, nil
}

func parseWei(s string) *big.Int {
	wei, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return wei
}
