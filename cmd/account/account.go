package account

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/util/command"
	"github/chapool/evm-wallet/internal/wallet"
	"github/chapool/evm-wallet/internal/wallet/seed"
)

const (
	indexFlag    = "index"
	countFlag    = "count"
	strengthFlag = "strength"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Derives account addresses from a mnemonic",
		Long: `Derives the BIP44 accounts m/44'/60'/0'/0/<index> of a mnemonic

Only addresses and derivation paths are printed, never keys.`,
		RunE: runDerive,
	}
	command.AddMnemonicFlags(cmd)
	cmd.Flags().Uint32P(indexFlag, "i", 0, "First account index")
	cmd.Flags().Uint32P(countFlag, "n", 1, "Number of accounts to derive")

	cmd.AddCommand(newGenerate())

	return cmd
}

func runDerive(cmd *cobra.Command, _ []string) error {
	index, err := cmd.Flags().GetUint32(indexFlag)
	if err != nil {
		return errors.Wrap(err, "failed to read index flag")
	}
	count, err := cmd.Flags().GetUint32(countFlag)
	if err != nil {
		return errors.Wrap(err, "failed to read count flag")
	}

	cfg := config.DefaultServiceConfigFromEnv()
	mnemonic, passphrase, err := command.Mnemonic(cmd, cfg)
	if err != nil {
		return err
	}

	w := wallet.New(wallet.Config{})
	defer w.Dispose()

	if err := w.CreateFromMnemonicWithPassphrase(mnemonic, passphrase); err != nil {
		return err
	}

	accounts := make([]*wallet.AccountInfo, 0, count)
	for i := uint32(0); i < count; i++ {
		info, err := w.GetAccountInfo(index + i)
		if err != nil {
			return err
		}
		accounts = append(accounts, info)
	}

	return command.PrintJSON(cmd, accounts)
}

func newGenerate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates a new BIP39 mnemonic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			strength, err := cmd.Flags().GetInt(strengthFlag)
			if err != nil {
				return errors.Wrap(err, "failed to read strength flag")
			}

			mnemonic, err := seed.GenerateMnemonic(strength)
			if err != nil {
				return err
			}

			return command.PrintJSON(cmd, map[string]string{"mnemonic": mnemonic})
		},
	}
	cmd.Flags().Int(strengthFlag, 128, "Entropy bits: 128 (12 words) to 256 (24 words)")

	return cmd
}
