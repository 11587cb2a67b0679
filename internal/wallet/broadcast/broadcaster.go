// Package broadcast submits signed transactions to a pool of JSON-RPC
// providers with health tracking and failover.
package broadcast

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
	"github/chapool/evm-wallet/internal/metrics"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/wallet/chain"
	"github/chapool/evm-wallet/internal/wallet/signer"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

// NetworkLookup resolves a chain id to its canonical endpoint
type NetworkLookup func(chainID int64) (chain.Network, bool)

// Config configures a Broadcaster. Zero values fall back to defaults.
type Config struct {
	Providers []Provider
	Timeout   time.Duration
	// ReceiptTimeout bounds each eth_getTransactionReceipt call, Timeout when zero
	ReceiptTimeout time.Duration
	// Lookup narrows the pool for known chains, chain.GetChain when nil
	Lookup   NetworkLookup
	Recorder Recorder
}

// Broadcaster owns the provider pool. It is safe for concurrent use; each
// call operates on a snapshot of the pool and writes health back under lock.
type Broadcaster struct {
	mu        sync.Mutex
	providers []Provider

	timeout        time.Duration
	receiptTimeout time.Duration
	lookup         NetworkLookup
	recorder       Recorder
	logger         zerolog.Logger
}

func New(cfg Config) *Broadcaster {
	providers := cfg.Providers
	if len(providers) == 0 {
		providers = DefaultProviders()
	}

	b := &Broadcaster{
		providers:      append([]Provider{}, providers...),
		timeout:        cfg.Timeout,
		receiptTimeout: cfg.ReceiptTimeout,
		lookup:         cfg.Lookup,
		recorder:       cfg.Recorder,
		logger:         util.ComponentLogger("broadcaster"),
	}

	if b.timeout <= 0 {
		b.timeout = DefaultTimeout
	}
	if b.receiptTimeout <= 0 {
		b.receiptTimeout = b.timeout
	}
	if b.lookup == nil {
		b.lookup = chain.GetChain
	}
	if b.recorder == nil {
		b.recorder = noopRecorder{}
	}

	return b
}

// Providers returns a copy of the pool in priority order
func (b *Broadcaster) Providers() []Provider {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := append([]Provider{}, b.providers...)
	sortByPriority(out)
	return out
}

// ResetHealth marks every provider healthy again
func (b *Broadcaster) ResetHealth() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.providers {
		b.providers[i].IsHealthy = true
		b.providers[i].LastError = time.Time{}
		b.providers[i].LastCode = ""
		b.recorder.SetProviderHealth(b.providers[i].Name, true)
	}
}

// BroadcastTransaction submits tx. A chain id known to the registry narrows
// the pool to that network's endpoint.
func (b *Broadcaster) BroadcastTransaction(ctx context.Context, tx *signer.SignedTransaction) (string, error) {
	if tx == nil {
		return "", walleterr.New(walleterr.CodeInvalidTransaction, "Invalid transaction: missing signed transaction")
	}

	if network, ok := b.lookup(tx.ChainID()); ok {
		pool := []Provider{{Name: network.Name, URL: network.RPCURL, Priority: 1, IsHealthy: true}}
		return b.send(ctx, pool, tx.RawTransaction, false)
	}

	return b.BroadcastRaw(ctx, tx.RawTransaction)
}

// BroadcastRaw submits a 0x prefixed raw transaction to the generic pool
func (b *Broadcaster) BroadcastRaw(ctx context.Context, rawTransaction string) (string, error) {
	if !strings.HasPrefix(rawTransaction, "0x") {
		rawTransaction = "0x" + rawTransaction
	}
	return b.send(ctx, b.healthySnapshot(), rawTransaction, true)
}

func (b *Broadcaster) send(ctx context.Context, pool []Provider, raw string, tracked bool) (string, error) {
	if len(pool) == 0 {
		return "", walleterr.New(walleterr.CodeNoProviders, "No healthy providers available")
	}

	log := b.log(ctx)

	var lastErr *walleterr.Error
	for _, provider := range pool {
		if err := ctx.Err(); err != nil {
			return "", cancelled(err)
		}

		var txHash string
		err := b.call(ctx, provider.URL, b.timeout, &txHash, methodSendRawTransaction, raw)
		if err == nil && txHash == "" {
			err = walleterr.New(walleterr.CodeProviderError, "No result in response")
		}
		if err == nil {
			b.recorder.ObserveAttempt(provider.Name, metrics.OutcomeSuccess, "")
			if tracked {
				b.markHealthy(provider)
			}
			log.Debug().Str("provider", provider.Name).Str("tx_hash", txHash).Msg("Transaction broadcast")
			return txHash, nil
		}

		// the caller gave up, the provider is not at fault
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug().Str("provider", provider.Name).Err(err).Msg("Broadcast aborted by caller")
			return "", cancelled(ctxErr)
		}

		classified := walleterr.Classify(provider.Name, err)
		retriable := walleterr.IsRetriable(classified.Code)

		b.recorder.ObserveAttempt(provider.Name, metrics.OutcomeFailure, string(classified.Code))
		if tracked {
			b.markUnhealthy(provider, classified.Code)
		}

		log.Warn().
			Str("provider", provider.Name).
			Str("code", string(classified.Code)).
			Bool("retriable", retriable).
			Err(err).
			Msg("Broadcast attempt failed")

		if !retriable {
			return "", classified
		}
		lastErr = classified
	}

	return "", walleterr.Wrap(lastErr, walleterr.CodeAllProvidersFailed, "All providers failed to broadcast transaction")
}

// GetTransactionReceipt asks each healthy provider for the receipt and
// returns the first one found. It returns nil, nil while the transaction is
// pending or when every provider fails. Provider health is not touched.
func (b *Broadcaster) GetTransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	log := b.log(ctx)

	for _, provider := range b.healthySnapshot() {
		if ctx.Err() != nil {
			break
		}

		var raw json.RawMessage
		err := b.call(ctx, provider.URL, b.receiptTimeout, &raw, methodGetTransactionReceipt, txHash)
		if err != nil {
			log.Debug().Str("provider", provider.Name).Err(err).Msg("Receipt lookup failed, trying next provider")
			continue
		}
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}

		var receipt Receipt
		if err := json.Unmarshal(raw, &receipt); err != nil {
			log.Debug().Str("provider", provider.Name).Err(err).Msg("Malformed receipt, trying next provider")
			continue
		}
		receipt.Raw = raw
		return &receipt, nil
	}

	return nil, nil //nolint:nilnil // a missing receipt is not an error
}

func cancelled(err error) *walleterr.Error {
	return walleterr.Wrap(err, walleterr.CodeNetworkTimeout, "Broadcast cancelled: "+err.Error())
}

// log prefers the logger carried by ctx over the component logger
func (b *Broadcaster) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &b.logger
}

// call performs one JSON-RPC request bounded by timeout
func (b *Broadcaster) call(ctx context.Context, url string, timeout time.Duration, result interface{}, method string, args ...interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := rpc.DialContext(callCtx, url)
	if err != nil {
		return err
	}
	defer client.Close()

	return client.CallContext(callCtx, result, method, args...)
}

func (b *Broadcaster) healthySnapshot() []Provider {
	b.mu.Lock()
	defer b.mu.Unlock()

	healthy := make([]Provider, 0, len(b.providers))
	for _, p := range b.providers {
		if p.IsHealthy {
			healthy = append(healthy, p)
		}
	}
	sortByPriority(healthy)
	return healthy
}

func (b *Broadcaster) markHealthy(provider Provider) {
	b.update(provider, func(p *Provider) {
		p.IsHealthy = true
	})
	b.recorder.SetProviderHealth(provider.Name, true)
}

func (b *Broadcaster) markUnhealthy(provider Provider, code walleterr.Code) {
	now := time.Now()
	b.update(provider, func(p *Provider) {
		p.IsHealthy = false
		p.LastError = now
		p.LastCode = string(code)
	})
	b.recorder.SetProviderHealth(provider.Name, false)
}

func (b *Broadcaster) update(provider Provider, apply func(p *Provider)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.providers {
		if b.providers[i].Name == provider.Name && b.providers[i].URL == provider.URL {
			apply(&b.providers[i])
		}
	}
}

func sortByPriority(providers []Provider) {
	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Priority < providers[j].Priority
	})
}
