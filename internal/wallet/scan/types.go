package scan

import (
	"context"
	"math/big"
)

const (
	DefaultGasLimit = 21000

	// BalanceDecimals is the precision of formatted balances
	BalanceDecimals = 6
)

var (
	// UnknownNetworkGasPrice is returned for chains missing from the registry
	UnknownNetworkGasPrice = big.NewInt(20_000_000_000)
	// MainnetFallbackGasPrice is returned when a mainnet node is unreachable
	MainnetFallbackGasPrice = big.NewInt(30_000_000_000)
	// TestnetFallbackGasPrice is returned when any other node is unreachable
	TestnetFallbackGasPrice = big.NewInt(2_000_000_000)
)

// Service reads live network state used to fill in transaction fields
type Service interface {
	// NetworkStatus never fails. Unknown networks and unreachable nodes yield
	// defaults with IsConnected false and Error set.
	NetworkStatus(ctx context.Context, chainID int64) *NetworkStatus

	// AccountInfo returns the nonce and balance of address, zeroes on failure
	AccountInfo(ctx context.Context, rpcURL string, address string) *AccountInfo
}

// GasInfo holds gas figures in Wei
type GasInfo struct {
	GasPrice          string `json:"gasPrice"`
	SuggestedGasLimit string `json:"suggestedGasLimit"`
	BlockNumber       string `json:"blockNumber"`
	BaseFee           string `json:"baseFee,omitempty"`
}

type NetworkStatus struct {
	ChainID     string  `json:"chainId"`
	NetworkName string  `json:"networkName"`
	RPCURL      string  `json:"rpcUrl"`
	GasInfo     GasInfo `json:"gasInfo"`
	IsConnected bool    `json:"isConnected"`
	Error       string  `json:"error,omitempty"`
}

type AccountInfo struct {
	Nonce      string `json:"nonce"`
	BalanceWei string `json:"balanceWei"`
	Balance    string `json:"balance"` // ETH with BalanceDecimals digits
}

// GasRecommendations are whole Gwei amounts
type GasRecommendations struct {
	Slow     string `json:"slow"`
	Standard string `json:"standard"`
	Fast     string `json:"fast"`
}
