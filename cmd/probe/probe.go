package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/evm-wallet/internal/config"
	"github/chapool/evm-wallet/internal/util/command"
)

const (
	verboseFlag string = "verbose"

	probeTimeout = 5 * time.Second
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newProbe("liveness", "/-/healthy", "Checks that the running server is alive"),
		newProbe("readiness", "/-/ready", "Checks that the running server can broadcast"),
	)
}

func newProbe(name string, path string, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return errors.Wrap(err, "failed to read verbose flag")
			}

			cfg := config.DefaultServiceConfigFromEnv()
			body, err := probe(cmd.Context(), baseURL(cfg.Echo.ListenAddress)+path)
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), body)
			}
			return err
		},
	}
	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response")

	return cmd
}

func probe(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create probe request")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to probe %s", url)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read probe response")
	}
	if res.StatusCode != http.StatusOK {
		return string(body), errors.Errorf("probe %s returned status %d", url, res.StatusCode)
	}
	return string(body), nil
}

func baseURL(listenAddress string) string {
	if strings.HasPrefix(listenAddress, ":") {
		listenAddress = "127.0.0.1" + listenAddress
	}
	return "http://" + listenAddress
}
