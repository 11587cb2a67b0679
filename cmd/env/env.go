package env

import (
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/util/command"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the env",
		Long: `Prints the currently applied env

The mnemonic is never printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.PrintJSON(cmd, config.DefaultServiceConfigFromEnv())
		},
	}
}
