package address

import (
	"github.com/tyler-smith/go-bip32"
	"github/chapool/evm-wallet/internal/wallet/secret"
)

// Account is a key pair derived at m/44'/60'/0'/0/{Index}. It is recomputable
// from the seed at any time and never persisted.
type Account struct {
	Address        string         // EIP-55 checksummed address
	PrivateKey     *secret.Buffer // 32 byte secp256k1 scalar
	PublicKey      []byte         // 65 byte uncompressed public key (0x04 prefix)
	DerivationPath string
	Index          uint32
}

// Dispose wipes the private key
func (a *Account) Dispose() {
	if a == nil {
		return
	}
	a.PrivateKey.Wipe()
}

// Deriver derives accounts from an HD master key
type Deriver interface {
	// DeriveAccount derives the account at the given address index
	DeriveAccount(master *bip32.Key, index uint32) (*Account, error)

	// DerivePrivateKey derives the private key at path
	// WARNING: Caller must wipe the private key after use
	DerivePrivateKey(master *bip32.Key, path string) ([]byte, error)

	// GetBIP44Path gets BIP44 path (fixed format for EVM chains)
	GetBIP44Path(addressIndex uint32) string
}
