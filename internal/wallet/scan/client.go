package scan

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RPCClient wraps ethclient with failover across several URLs
type RPCClient struct {
	urls    []string
	clients []*ethclient.Client
	mu      sync.Mutex
	current int // index of the last client that answered
}

// NewRPCClient creates a client for urls. Connections are opened lazily.
func NewRPCClient(urls ...string) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	return &RPCClient{
		urls:    append([]string{}, urls...),
		clients: make([]*ethclient.Client, len(urls)),
	}, nil
}

// Close closes all open connections
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, client := range c.clients {
		if client != nil {
			client.Close()
			c.clients[i] = nil
		}
	}
}

// GetLatestBlockNumber gets the latest block number (eth_blockNumber)
func (c *RPCClient) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	var number uint64
	err := c.do(ctx, func(client *ethclient.Client) (err error) {
		number, err = client.BlockNumber(ctx)
		return err
	})
	return number, errors.Wrap(err, "failed to get latest block number")
}

// GetChainID gets the chain id reported by the node (eth_chainId)
func (c *RPCClient) GetChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int
	err := c.do(ctx, func(client *ethclient.Client) (err error) {
		chainID, err = client.ChainID(ctx)
		return err
	})
	return chainID, errors.Wrap(err, "failed to get chain ID")
}

// SuggestGasPrice gets the legacy gas price (eth_gasPrice)
func (c *RPCClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var price *big.Int
	err := c.do(ctx, func(client *ethclient.Client) (err error) {
		price, err = client.SuggestGasPrice(ctx)
		return err
	})
	return price, errors.Wrap(err, "failed to get gas price")
}

// BalanceAt returns the balance of an address at the latest block
func (c *RPCClient) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.do(ctx, func(client *ethclient.Client) (err error) {
		balance, err = client.BalanceAt(ctx, address, nil)
		return err
	})
	return balance, errors.Wrap(err, "failed to get balance")
}

// NonceAt returns the confirmed nonce of an address at the latest block
func (c *RPCClient) NonceAt(ctx context.Context, address common.Address) (uint64, error) {
	var nonce uint64
	err := c.do(ctx, func(client *ethclient.Client) (err error) {
		nonce, err = client.NonceAt(ctx, address, nil)
		return err
	})
	return nonce, errors.Wrap(err, "failed to get nonce")
}

// do runs fn against the current client, moving on to the next URL when the
// call fails
func (c *RPCClient) do(ctx context.Context, fn func(client *ethclient.Client) error) error {
	var lastErr error

	for i := 0; i < len(c.urls); i++ {
		idx, client, err := c.clientAt(ctx, i)
		if err != nil {
			lastErr = err
			continue
		}

		if err := fn(client); err != nil {
			log.Warn().Str("url", c.urls[idx]).Err(err).Msg("RPC call failed, trying next node")
			lastErr = err
			continue
		}

		c.mu.Lock()
		c.current = idx
		c.mu.Unlock()
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("all RPC clients are unavailable")
	}
	return lastErr
}

// clientAt returns the client offset positions after the current one,
// dialing it on first use
func (c *RPCClient) clientAt(ctx context.Context, offset int) (int, *ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := (c.current + offset) % len(c.urls)
	if c.clients[idx] != nil {
		return idx, c.clients[idx], nil
	}

	client, err := ethclient.DialContext(ctx, c.urls[idx])
	if err != nil {
		log.Warn().Str("url", c.urls[idx]).Err(err).Msg("Failed to connect to RPC node")
		return idx, nil, err
	}
	c.clients[idx] = client
	return idx, client, nil
}
