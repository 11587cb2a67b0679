package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/api"
	"github/chapool/evm-wallet/internal/api/router"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/util/command"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the stateless JSON service

Every request derives its keys from the mnemonic it carries and wipes
them before the response is written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.DefaultServiceConfigFromEnv()

	return command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
		router.Init(s)

		errs := make(chan error, 1)
		go func() {
			log.Info().Str("address", cfg.Echo.ListenAddress).Msg("Starting server")
			if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
			close(errs)
		}()

		select {
		case err := <-errs:
			return err
		case <-ctx.Done():
			log.Info().Msg("Received shutdown signal")
			return nil
		}
	})
}
