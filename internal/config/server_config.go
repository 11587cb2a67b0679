package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"golang.org/x/text/language"
)

const envPrefix = "WALLET"

type EchoServer struct {
	Debug                         bool
	ListenAddress                 string
	EnableCORSMiddleware          bool
	EnableLoggerMiddleware        bool
	EnableRecoverMiddleware       bool
	EnableRequestIDMiddleware     bool
	EnableTrailingSlashMiddleware bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	PrettyPrintConsole bool
}

// ProviderEndpoint is one entry of the broadcast pool, in priority order
type ProviderEndpoint struct {
	Name string
	URL  string
}

type Broadcast struct {
	Timeout        time.Duration
	ReceiptTimeout time.Duration
	Providers      []ProviderEndpoint
}

type Wallet struct {
	DefaultNetwork string
	// Mnemonic is only read by CLI commands and never serialized
	Mnemonic string `json:"-"`
}

type I18n struct {
	DefaultLanguage language.Tag
}

type Management struct {
	EnableMetrics bool
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Broadcast  Broadcast
	Wallet     Wallet
	I18n       I18n
	Management Management
}

// DefaultServiceConfigFromEnv returns the server config as parsed from
// environment variables (prefix WALLET_) and their defaults
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in the working directory can override the
	// currently set ENV variables. It is never applied while running tests.
	if !testing.Testing() {
		loadEnvFile(".env.local")
	}

	return FromViper(newViper())
}

// FromViper builds the config from an already prepared viper instance
func FromViper(v *viper.Viper) Server {
	return Server{
		Echo: EchoServer{
			Debug:                         v.GetBool("echo.debug"),
			ListenAddress:                 v.GetString("echo.listen_address"),
			EnableCORSMiddleware:          v.GetBool("echo.enable_cors_middleware"),
			EnableLoggerMiddleware:        v.GetBool("echo.enable_logger_middleware"),
			EnableRecoverMiddleware:       v.GetBool("echo.enable_recover_middleware"),
			EnableRequestIDMiddleware:     v.GetBool("echo.enable_request_id_middleware"),
			EnableTrailingSlashMiddleware: v.GetBool("echo.enable_trailing_slash_middleware"),
		},
		Logger: LoggerServer{
			Level:              parseLevel(v.GetString("logger.level"), zerolog.InfoLevel),
			RequestLevel:       parseLevel(v.GetString("logger.request_level"), zerolog.DebugLevel),
			PrettyPrintConsole: v.GetBool("logger.pretty_print_console"),
		},
		Broadcast: Broadcast{
			Timeout:        v.GetDuration("broadcast.timeout"),
			ReceiptTimeout: v.GetDuration("receipt.timeout"),
			Providers:      ParseProviders(v.GetString("broadcast.providers")),
		},
		Wallet: Wallet{
			DefaultNetwork: v.GetString("default.network"),
			Mnemonic:       v.GetString("mnemonic"),
		},
		I18n: I18n{
			DefaultLanguage: parseLanguage(v.GetString("i18n.default_language")),
		},
		Management: Management{
			EnableMetrics: v.GetBool("management.enable_metrics"),
		},
	}
}

// ParseProviders parses "name=url,name=url". Entries without a name are
// named after their position.
func ParseProviders(s string) []ProviderEndpoint {
	var providers []ProviderEndpoint

	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, url, found := strings.Cut(entry, "=")
		if !found {
			url = name
			name = "provider-" + strconv.Itoa(len(providers)+1)
		}

		providers = append(providers, ProviderEndpoint{
			Name: strings.TrimSpace(name),
			URL:  strings.TrimSpace(url),
		})
	}

	return providers
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("echo.debug", false)
	v.SetDefault("echo.listen_address", ":8080")
	v.SetDefault("echo.enable_cors_middleware", true)
	v.SetDefault("echo.enable_logger_middleware", true)
	v.SetDefault("echo.enable_recover_middleware", true)
	v.SetDefault("echo.enable_request_id_middleware", true)
	v.SetDefault("echo.enable_trailing_slash_middleware", true)

	v.SetDefault("logger.level", zerolog.InfoLevel.String())
	v.SetDefault("logger.request_level", zerolog.DebugLevel.String())
	v.SetDefault("logger.pretty_print_console", false)

	v.SetDefault("broadcast.timeout", 10*time.Second)
	v.SetDefault("receipt.timeout", 10*time.Second)
	v.SetDefault("broadcast.providers",
		"BlastAPI=https://eth-mainnet.public.blastapi.io,Cloudflare=https://cloudflare-eth.com,Ankr=https://rpc.ankr.com/eth")

	v.SetDefault("default.network", "sepolia")
	v.SetDefault("mnemonic", "")
	v.SetDefault("i18n.default_language", "en")
	v.SetDefault("management.enable_metrics", true)

	return v
}

func loadEnvFile(name string) {
	path, err := filepath.Abs(name)
	if err != nil {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	if err := gotenv.OverLoad(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg(".env.local could not be applied")
		return
	}
	log.Warn().Str("path", path).Msg(".env.local overrides ENV variables")
}

func parseLevel(s string, fallback zerolog.Level) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return fallback
	}
	return level
}

func parseLanguage(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}
