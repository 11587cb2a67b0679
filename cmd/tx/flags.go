package tx

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/wallet/chain"
)

const networkFlag = "network"

// resolveChainID returns chainID when set, else the chain id of the named
// network, else the one of the configured default network
func resolveChainID(cmd *cobra.Command, chainID string, cfg config.Server) (string, error) {
	if chainID != "" {
		return chainID, nil
	}

	name, err := cmd.Flags().GetString(networkFlag)
	if err != nil {
		return "", errors.Wrap(err, "failed to read network flag")
	}
	if name == "" {
		name = cfg.Wallet.DefaultNetwork
	}

	network, ok := chain.GetByName(name)
	if !ok {
		return "", errors.Errorf("unknown network %q, expected one of %v", name, chain.NetworkNames())
	}
	return strconv.FormatInt(network.ChainID, 10), nil
}
