package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/cmd/account"
	"github/chapool/evm-wallet/cmd/env"
	"github/chapool/evm-wallet/cmd/network"
	"github/chapool/evm-wallet/cmd/probe"
	"github/chapool/evm-wallet/cmd/server"
	"github/chapool/evm-wallet/cmd/tx"
	"github/chapool/evm-wallet/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "app",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

A minimal EVM wallet: HD key derivation, EIP-155 signing and
broadcasting with provider failover, as a CLI and a JSON service.
Requires configuration through ENV.`, config.ModuleName),
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		account.New(),
		tx.NewSign(),
		tx.NewBroadcast(),
		tx.NewReceipt(),
		tx.NewDecode(),
		network.New(),
		env.New(),
		probe.New(),
		server.New(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
