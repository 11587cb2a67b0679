// Package scan reads live network state: gas price, block height, nonce and
// balance.
package scan

import (
	"context"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/wallet/chain"
	"github/chapool/evm-wallet/internal/wallet/validate"
	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 10 * time.Second

type service struct {
	lookup  func(chainID int64) (chain.Network, bool)
	timeout time.Duration
}

// NewService creates a network info service. lookup resolves chain ids to
// endpoints, chain.GetChain when nil.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(lookup func(chainID int64) (chain.Network, bool), timeout time.Duration) Service {
	if lookup == nil {
		lookup = chain.GetChain
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &service{lookup: lookup, timeout: timeout}
}

func (s *service) NetworkStatus(ctx context.Context, chainID int64) *NetworkStatus {
	id := strconv.FormatInt(chainID, 10)

	network, ok := s.lookup(chainID)
	if !ok {
		return &NetworkStatus{
			ChainID:     id,
			NetworkName: "Unknown Network",
			GasInfo:     defaultGasInfo(UnknownNetworkGasPrice),
			Error:       "Unsupported network",
		}
	}

	status := &NetworkStatus{
		ChainID:     id,
		NetworkName: network.Name,
		RPCURL:      network.RPCURL,
	}

	gasPrice, blockNumber, err := s.queryNetwork(ctx, network.RPCURL)
	if err != nil {
		util.LogFromContext(ctx).Debug().Err(err).Str("network", network.Key).Msg("Network unavailable, using default gas price")

		fallback := TestnetFallbackGasPrice
		if chainID == chain.MainnetChainID {
			fallback = MainnetFallbackGasPrice
		}
		status.GasInfo = defaultGasInfo(fallback)
		status.Error = err.Error()
		return status
	}

	status.IsConnected = true
	status.GasInfo = GasInfo{
		GasPrice:          gasPrice.String(),
		SuggestedGasLimit: strconv.Itoa(DefaultGasLimit),
		BlockNumber:       strconv.FormatUint(blockNumber, 10),
		BaseFee:           gasPrice.String(),
	}
	return status
}

// queryNetwork issues eth_gasPrice, eth_blockNumber and eth_chainId in parallel
func (s *service) queryNetwork(ctx context.Context, rpcURL string) (*big.Int, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := NewRPCClient(rpcURL)
	if err != nil {
		return nil, 0, err
	}
	defer client.Close()

	var (
		gasPrice    *big.Int
		blockNumber uint64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		gasPrice, err = client.SuggestGasPrice(gctx)
		return err
	})
	g.Go(func() (err error) {
		blockNumber, err = client.GetLatestBlockNumber(gctx)
		return err
	})
	g.Go(func() error {
		_, err := client.GetChainID(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return gasPrice, blockNumber, nil
}

func (s *service) AccountInfo(ctx context.Context, rpcURL string, address string) *AccountInfo {
	empty := &AccountInfo{Nonce: "0", BalanceWei: "0", Balance: validate.FormatUnits(new(big.Int), validate.EtherDecimals, BalanceDecimals)}

	if !validate.IsHexAddress(address) {
		return empty
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := NewRPCClient(rpcURL)
	if err != nil {
		return empty
	}
	defer client.Close()

	account := common.HexToAddress(address)

	var (
		nonce   uint64
		balance *big.Int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		nonce, err = client.NonceAt(gctx, account)
		return err
	})
	g.Go(func() (err error) {
		balance, err = client.BalanceAt(gctx, account)
		return err
	})

	if err := g.Wait(); err != nil {
		util.LogFromContext(ctx).Debug().Err(err).Str("address", address).Msg("Failed to get account info")
		return empty
	}

	return &AccountInfo{
		Nonce:      strconv.FormatUint(nonce, 10),
		BalanceWei: balance.String(),
		Balance:    validate.FormatUnits(balance, validate.EtherDecimals, BalanceDecimals),
	}
}

// GasPriceRecommendations derives slow (80%), standard and fast (120%)
// prices in whole Gwei, rounded up
func GasPriceRecommendations(gasPriceWei *big.Int) GasRecommendations {
	return GasRecommendations{
		Slow:     ceilGwei(gasPriceWei, 80),
		Standard: ceilGwei(gasPriceWei, 100),
		Fast:     ceilGwei(gasPriceWei, 120),
	}
}

// FormatGwei renders a Wei amount as whole Gwei, rounded half up
func FormatGwei(wei *big.Int) string {
	return validate.FormatUnits(wei, validate.GweiDecimals, 0)
}

func ceilGwei(wei *big.Int, percent int64) string {
	if wei == nil || wei.Sign() <= 0 {
		return "0"
	}
	// ceil(wei * percent / (100 * 1e9))
	num := new(big.Int).Mul(wei, big.NewInt(percent))
	den := big.NewInt(100 * 1_000_000_000)
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.String()
}

func defaultGasInfo(gasPrice *big.Int) GasInfo {
	return GasInfo{
		GasPrice:          gasPrice.String(),
		SuggestedGasLimit: strconv.Itoa(DefaultGasLimit),
		BlockNumber:       "0",
	}
}
