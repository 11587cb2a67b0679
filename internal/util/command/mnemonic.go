package command

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/wallet"
)

const (
	MnemonicFlag   = "mnemonic"
	PassphraseFlag = "passphrase"
)

// AddMnemonicFlags registers --mnemonic and --passphrase on cmd
func AddMnemonicFlags(cmd *cobra.Command) {
	cmd.Flags().String(MnemonicFlag, "", "BIP39 recovery phrase (falls back to WALLET_MNEMONIC, then a hidden prompt)")
	cmd.Flags().String(PassphraseFlag, "", "Optional BIP39 passphrase")
}

// Mnemonic resolves the mnemonic of cmd from its flag, the config or a prompt
func Mnemonic(cmd *cobra.Command, cfg config.Server) (string, string, error) {
	flag, err := cmd.Flags().GetString(MnemonicFlag)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to read mnemonic flag")
	}
	passphrase, err := cmd.Flags().GetString(PassphraseFlag)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to read passphrase flag")
	}

	source := wallet.MnemonicSource{
		Flag:   flag,
		Env:    cfg.Wallet.Mnemonic,
		Output: cmd.ErrOrStderr(),
	}
	if in := cmd.InOrStdin(); in != os.Stdin {
		source.Input = in
	}

	mnemonic, err := source.Resolve()
	if err != nil {
		return "", "", err
	}
	return mnemonic, passphrase, nil
}

// PrintJSON writes v as indented JSON to the command output
func PrintJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "failed to encode output")
}
