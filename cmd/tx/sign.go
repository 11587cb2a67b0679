package tx

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/util/command"
	"github/chapool/evm-wallet/internal/wallet"
)

const (
	inputFlag     = "input"
	indexFlag     = "index"
	toFlag        = "to"
	valueFlag     = "value"
	unitFlag      = "unit"
	nonceFlag     = "nonce"
	gasPriceFlag  = "gas-price"
	gasLimitFlag  = "gas-limit"
	chainIDFlag   = "chain-id"
	dataFlag      = "data"
	broadcastFlag = "broadcast"
)

type signOutput struct {
	Signed   interface{} `json:"signedTransaction"`
	TxHash   string      `json:"txHash,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

func NewSign() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Builds and signs a legacy EIP-155 transaction",
		Long: `Builds and signs a legacy EIP-155 transaction, optionally broadcasting it

Fields come from flags or from a JSON request file (--input) with the keys
to, value, valueUnit, nonce, gasPrice, gasLimit, chainId and data. Flags
override the file.`,
		RunE: runSign,
	}
	command.AddMnemonicFlags(cmd)

	flags := cmd.Flags()
	flags.StringP(inputFlag, "f", "", "JSON request file")
	flags.Uint32P(indexFlag, "i", 0, "Account index to sign with")
	flags.String(toFlag, "", "Recipient address, empty for contract creation")
	flags.String(valueFlag, "", "Amount to send")
	flags.String(unitFlag, "", "Unit of --value: wei, gwei or ether (guessed when empty)")
	flags.String(nonceFlag, "", "Sender nonce")
	flags.String(gasPriceFlag, "", "Gas price in Wei")
	flags.String(gasLimitFlag, "21000", "Gas limit")
	flags.String(chainIDFlag, "", "Chain id (defaults to the chain id of --network)")
	flags.String(networkFlag, "", "Network name, the configured default network when empty")
	flags.String(dataFlag, "", "Hex call data")
	flags.Bool(broadcastFlag, false, "Broadcast the signed transaction")

	return cmd
}

func runSign(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.DefaultServiceConfigFromEnv()
	util.ConfigureLogger(cfg.Logger.Level, cfg.Logger.PrettyPrintConsole)

	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}

	req.ChainID, err = resolveChainID(cmd, req.ChainID, cfg)
	if err != nil {
		return err
	}

	req.Mnemonic, req.Passphrase, err = command.Mnemonic(cmd, cfg)
	if err != nil {
		return err
	}

	result, err := wallet.SignOnce(ctx, wallet.Config{
		Broadcaster: api.NewBroadcaster(cfg, nil),
	}, req)
	if err != nil {
		return err
	}

	return command.PrintJSON(cmd, &signOutput{
		Signed:   result.Signed,
		TxHash:   result.TxHash,
		Warnings: result.Warnings,
	})
}

func requestFromFlags(cmd *cobra.Command) (wallet.Request, error) {
	var req wallet.Request
	flags := cmd.Flags()

	input, err := flags.GetString(inputFlag)
	if err != nil {
		return req, errors.Wrap(err, "failed to read input flag")
	}
	if input != "" {
		raw, err := os.ReadFile(input)
		if err != nil {
			return req, errors.Wrap(err, "failed to read request file")
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return req, errors.Wrap(err, "failed to parse request file")
		}
		// keys are never taken from files
		req.Mnemonic = ""
		req.Passphrase = ""
	}

	stringFlags := map[string]*string{
		toFlag:       &req.To,
		valueFlag:    &req.Value,
		unitFlag:     &req.ValueUnit,
		nonceFlag:    &req.Nonce,
		gasPriceFlag: &req.GasPrice,
		gasLimitFlag: &req.GasLimit,
		chainIDFlag:  &req.ChainID,
		dataFlag:     &req.Data,
	}
	for name, target := range stringFlags {
		if !flags.Changed(name) && *target != "" {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return req, errors.Wrapf(err, "failed to read %s flag", name)
		}
		*target = value
	}

	if flags.Changed(indexFlag) || input == "" {
		if req.AccountIndex, err = flags.GetUint32(indexFlag); err != nil {
			return req, errors.Wrap(err, "failed to read index flag")
		}
	}
	if flags.Changed(broadcastFlag) || input == "" {
		if req.Broadcast, err = flags.GetBool(broadcastFlag); err != nil {
			return req, errors.Wrap(err, "failed to read broadcast flag")
		}
	}

	return req, nil
}
