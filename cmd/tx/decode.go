package tx

import (
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/util/command"
	"github/chapool/evm-wallet/internal/wallet/signer"
)

func NewDecode() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <raw-transaction>",
		Short: "Decodes a signed legacy transaction",
		Long: `Decodes the RLP fields of a signed legacy transaction and recovers its
chain id and sender`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, from, err := signer.DecodeRawTransaction(args[0])
			if err != nil {
				return err
			}

			return command.PrintJSON(cmd, struct {
				signer.SignedJSON
				From string `json:"from,omitempty"`
			}{decoded.ToJSON(), from})
		},
	}
}
