// Package wallet composes key derivation, transaction building, signing and
// broadcasting into a single flow.
package wallet

import (
	"context"
	"math/big"
	"strconv"
	"sync"

	"github/chapool/evm-wallet/internal/metrics"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/wallet/address"
	"github/chapool/evm-wallet/internal/wallet/broadcast"
	"github/chapool/evm-wallet/internal/wallet/seed"
	"github/chapool/evm-wallet/internal/wallet/signer"
	"github/chapool/evm-wallet/internal/wallet/transaction"
	"github/chapool/evm-wallet/internal/wallet/validate"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

// Config wires the collaborators of a Wallet. Nil fields get defaults.
type Config struct {
	Broadcaster *broadcast.Broadcaster
	Signer      signer.Service
	Metrics     *metrics.Service
}

// Wallet holds at most one key manager. Callers must Dispose it, usually with
// defer right after construction.
type Wallet struct {
	mu   sync.Mutex
	keys seed.Manager

	signer      signer.Service
	broadcaster *broadcast.Broadcaster
	metrics     *metrics.Service
}

func New(cfg Config) *Wallet {
	w := &Wallet{
		signer:      cfg.Signer,
		broadcaster: cfg.Broadcaster,
		metrics:     cfg.Metrics,
	}
	if w.signer == nil {
		w.signer = signer.NewService()
	}
	if w.broadcaster == nil {
		w.broadcaster = broadcast.New(broadcast.Config{Recorder: recorderOf(cfg.Metrics)})
	}
	return w
}

// NewDemo returns a wallet initialized from DemoMnemonic
func NewDemo(cfg Config) (*Wallet, error) {
	w := New(cfg)
	if err := w.CreateFromMnemonic(DemoMnemonic); err != nil {
		return nil, err
	}
	return w, nil
}

// CreateFromMnemonic replaces the key manager, disposing the previous one
func (w *Wallet) CreateFromMnemonic(mnemonic string) error {
	return w.CreateFromMnemonicWithPassphrase(mnemonic, "")
}

// CreateFromMnemonicWithPassphrase is CreateFromMnemonic with a BIP39
// passphrase. On failure the wallet is left uninitialized.
func (w *Wallet) CreateFromMnemonicWithPassphrase(mnemonic string, passphrase string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.keys != nil {
		w.keys.Dispose()
		w.keys = nil
	}

	keys, err := seed.FromMnemonic(mnemonic, passphrase)
	if err != nil {
		return err
	}
	w.keys = keys
	return nil
}

// IsInitialized reports whether a mnemonic has been loaded
func (w *Wallet) IsInitialized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.keys != nil && w.keys.IsInitialized()
}

// DeriveAccount derives the account at index. The caller must Dispose it.
func (w *Wallet) DeriveAccount(index uint32) (*address.Account, error) {
	w.mu.Lock()
	keys := w.keys
	w.mu.Unlock()

	if keys == nil {
		return nil, walleterr.New(walleterr.CodeWalletNotInitialized, "Wallet not initialized. Call createFromMnemonic first.")
	}
	return keys.DeriveAccount(index)
}

// GetAddress returns the checksummed address at index
func (w *Wallet) GetAddress(index uint32) (string, error) {
	info, err := w.GetAccountInfo(index)
	if err != nil {
		return "", err
	}
	return info.Address, nil
}

// GetAccountInfo returns the public part of the account at index
func (w *Wallet) GetAccountInfo(index uint32) (*AccountInfo, error) {
	account, err := w.DeriveAccount(index)
	if err != nil {
		return nil, err
	}
	defer account.Dispose()

	return &AccountInfo{
		Address:        account.Address,
		DerivationPath: account.DerivationPath,
		Index:          account.Index,
	}, nil
}

// BuildTransaction validates params into an unsigned transaction
func (w *Wallet) BuildTransaction(params transaction.Params) (*transaction.UnsignedTransaction, error) {
	return transaction.FromParams(params)
}

// SignTransaction signs tx with the account at index
func (w *Wallet) SignTransaction(ctx context.Context, tx *transaction.UnsignedTransaction, index uint32) (*signer.SignedTransaction, error) {
	account, err := w.DeriveAccount(index)
	if err != nil {
		return nil, err
	}
	defer account.Dispose()

	var signed *signer.SignedTransaction
	used := account.PrivateKey.Use(func(key []byte) {
		signed, err = w.signer.SignTransaction(ctx, tx, key)
	})
	if !used {
		return nil, walleterr.New(walleterr.CodeNotInitialized, "Key manager not initialized")
	}
	if err != nil {
		return nil, err
	}

	w.metrics.ObserveSigned(strconv.FormatInt(tx.ChainID(), 10))
	util.LogFromContext(ctx).Debug().
		Str("from", account.Address).
		Str("tx_hash", signed.Hash).
		Int64("chain_id", tx.ChainID()).
		Msg("Transaction signed")

	return signed, nil
}

// BroadcastTransaction submits a signed transaction and returns its hash
func (w *Wallet) BroadcastTransaction(ctx context.Context, signed *signer.SignedTransaction) (string, error) {
	return w.broadcaster.BroadcastTransaction(ctx, signed)
}

// GetTransactionReceipt returns the receipt, or nil while pending
func (w *Wallet) GetTransactionReceipt(ctx context.Context, txHash string) (*broadcast.Receipt, error) {
	return w.broadcaster.GetTransactionReceipt(ctx, txHash)
}

// ValidateAddress returns the checksummed form of address
func (w *Wallet) ValidateAddress(address string) (string, error) {
	return validate.ValidateAddress(address)
}

// ConvertToWei converts value in unit to Wei. An empty unit applies the
// legacy ETH/Wei heuristic.
func (w *Wallet) ConvertToWei(value string, unit string) (*big.Int, error) {
	return validate.ToWei(value, unit)
}

// CreateSignedTransaction builds, signs and, if requested, broadcasts in one
// call. A mnemonic in req replaces the current key manager.
func (w *Wallet) CreateSignedTransaction(ctx context.Context, req Request) (*Result, error) {
	if req.Mnemonic != "" {
		if err := w.CreateFromMnemonicWithPassphrase(req.Mnemonic, req.Passphrase); err != nil {
			return nil, err
		}
	}

	builder := req.Params.Builder()
	tx, err := builder.Build()
	if err != nil {
		return nil, err
	}

	signed, err := w.SignTransaction(ctx, tx, req.AccountIndex)
	if err != nil {
		return nil, err
	}

	result := &Result{Signed: signed, Warnings: builder.Warnings()}
	if !req.Broadcast {
		return result, nil
	}

	txHash, err := w.BroadcastTransaction(ctx, signed)
	if err != nil {
		return nil, err
	}
	result.TxHash = txHash

	return result, nil
}

// Dispose wipes the key material. The wallet can be reused after another
// CreateFromMnemonic.
func (w *Wallet) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.keys != nil {
		w.keys.Dispose()
		w.keys = nil
	}
}

// SignOnce runs CreateSignedTransaction on a throwaway wallet and disposes
// it before returning
func SignOnce(ctx context.Context, cfg Config, req Request) (*Result, error) {
	w := New(cfg)
	defer w.Dispose()

	if req.Mnemonic == "" {
		return nil, walleterr.New(walleterr.CodeWalletNotInitialized, "Wallet not initialized. Call createFromMnemonic first.")
	}
	return w.CreateSignedTransaction(ctx, req)
}

func recorderOf(m *metrics.Service) broadcast.Recorder {
	if m == nil {
		return nil
	}
	return m
}
