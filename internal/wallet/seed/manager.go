package seed

import (
	"crypto/sha512"
	"sync"

	"github.com/tyler-smith/go-bip32"
	"github/chapool/evm-wallet/internal/wallet/address"
	"github/chapool/evm-wallet/internal/wallet/secret"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
	"golang.org/x/crypto/pbkdf2"
)

// manager implements seed management with thread-safe access
type manager struct {
	mu      sync.RWMutex
	seed    *secret.Buffer
	master  *bip32.Key
	state   State
	deriver address.Deriver
}

// NewManager creates a new, uninitialized Manager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager() Manager {
	return &manager{
		state:   StateUninitialized,
		deriver: address.NewDeriver(),
	}
}

// FromMnemonic creates a Manager and initializes it in one step
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func FromMnemonic(mnemonic string, passphrase string) (Manager, error) {
	m := NewManager()
	if err := m.Initialize(mnemonic, passphrase); err != nil {
		return nil, err
	}
	return m, nil
}

// Initialize validates the mnemonic and converts it to a seed using PBKDF2
// (BIP39 standard). On failure the manager stays uninitialized.
func (m *manager) Initialize(mnemonic string, passphrase string) error {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateDisposed {
		return walleterr.New(walleterr.CodeNotInitialized, "Key manager has been disposed")
	}

	// BIP39: seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
	const (
		pbkdf2Iterations = 2048 // BIP39 standard iterations
		pbkdf2KeyLength  = 64   // BIP39 standard key length (512 bits)
	)

	seedBytes := pbkdf2.Key(
		[]byte(NormalizeMnemonic(mnemonic)),
		[]byte("mnemonic"+passphrase),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	)

	master, err := bip32.NewMasterKey(seedBytes)
	if err != nil {
		zero(seedBytes)
		return walleterr.Wrap(err, walleterr.CodeKeyInitializationFailed, "Failed to initialize keys from mnemonic")
	}

	m.wipeLocked()
	m.seed = secret.New(seedBytes)
	m.master = master
	m.state = StateInitialized

	return nil
}

// GetSeed gets the seed (returns a copy to prevent external modification)
func (m *manager) GetSeed() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateInitialized {
		return nil
	}
	return m.seed.Bytes()
}

// IsInitialized checks if seed is initialized
func (m *manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state == StateInitialized
}

func (m *manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state
}

// DeriveAccount derives the account for index. The same index always yields
// the same account.
func (m *manager) DeriveAccount(index uint32) (*address.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state != StateInitialized || m.master == nil {
		return nil, walleterr.New(walleterr.CodeNotInitialized, "Key manager not initialized")
	}

	return m.deriver.DeriveAccount(m.master, index)
}

// Dispose clears the seed and key tree from memory
func (m *manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.wipeLocked()
	m.state = StateDisposed
}

func (m *manager) wipeLocked() {
	if m.seed != nil {
		m.seed.Wipe()
		m.seed = nil
	}
	if m.master != nil {
		zero(m.master.Key)
		zero(m.master.ChainCode)
		m.master = nil
	}
}
