package seed

import "github/chapool/evm-wallet/internal/wallet/address"

// State is the lifecycle stage of a Manager
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Manager provides seed management and account derivation
type Manager interface {
	// Initialize validates the mnemonic and derives the seed and HD master key
	Initialize(mnemonic string, passphrase string) error

	// GetSeed gets the seed (returns a copy, nil unless initialized)
	GetSeed() []byte

	// IsInitialized checks if seed is initialized
	IsInitialized() bool

	// State returns the current lifecycle stage
	State() State

	// DeriveAccount derives the account at m/44'/60'/0'/0/{index}
	DeriveAccount(index uint32) (*address.Account, error)

	// Dispose zeroes the seed and drops the key tree. Safe to call repeatedly.
	Dispose()
}
