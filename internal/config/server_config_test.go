package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-wallet/internal/config"
	"golang.org/x/text/language"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, ":8080", cfg.Echo.ListenAddress)
	assert.Equal(t, 10*time.Second, cfg.Broadcast.Timeout)
	assert.Equal(t, zerolog.InfoLevel, cfg.Logger.Level)
	assert.Equal(t, language.English, cfg.I18n.DefaultLanguage)

	require.Len(t, cfg.Broadcast.Providers, 3)
	assert.Equal(t, "BlastAPI", cfg.Broadcast.Providers[0].Name)
	assert.Equal(t, "https://cloudflare-eth.com", cfg.Broadcast.Providers[1].URL)
	assert.Equal(t, "Ankr", cfg.Broadcast.Providers[2].Name)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WALLET_ECHO_LISTEN_ADDRESS", "127.0.0.1:9000")
	t.Setenv("WALLET_BROADCAST_TIMEOUT", "3s")
	t.Setenv("WALLET_BROADCAST_PROVIDERS", "local=http://localhost:8545")
	t.Setenv("WALLET_LOGGER_LEVEL", "warn")
	t.Setenv("WALLET_LOGGER_PRETTY_PRINT_CONSOLE", "true")
	t.Setenv("WALLET_MNEMONIC", "secret words")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, "127.0.0.1:9000", cfg.Echo.ListenAddress)
	assert.Equal(t, 3*time.Second, cfg.Broadcast.Timeout)
	assert.Equal(t, []config.ProviderEndpoint{{Name: "local", URL: "http://localhost:8545"}}, cfg.Broadcast.Providers)
	assert.Equal(t, zerolog.WarnLevel, cfg.Logger.Level)
	assert.True(t, cfg.Logger.PrettyPrintConsole)
	assert.Equal(t, "secret words", cfg.Wallet.Mnemonic)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret words")
}

func TestParseProviders(t *testing.T) {
	assert.Empty(t, config.ParseProviders(""))
	assert.Equal(t, []config.ProviderEndpoint{
		{Name: "a", URL: "http://a"},
		{Name: "provider-2", URL: "http://b"},
	}, config.ParseProviders(" a=http://a , http://b ,"))
}

func TestGetFormattedBuildArgs(t *testing.T) {
	assert.Equal(t, "evm-wallet @ < 40 chars git commit hash via ldflags > (1970-01-01T00:00:00+00:00)", config.GetFormattedBuildArgs())
}
