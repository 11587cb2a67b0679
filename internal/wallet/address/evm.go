package address

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github/chapool/evm-wallet/internal/wallet/secret"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const (
	hardenedOffset  uint32 = 0x80000000
	privateKeyBytes        = 32
)

type evmDeriver struct{}

// NewDeriver creates the EVM account deriver
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewDeriver() Deriver {
	return evmDeriver{}
}

// GetBIP44Path gets BIP44 path (fixed format for EVM chains)
// Format: m/44'/60'/0'/0/{index}
func (evmDeriver) GetBIP44Path(addressIndex uint32) string {
	return fmt.Sprintf("m/44'/60'/0'/0/%d", addressIndex)
}

// DeriveAccount derives the EVM account at addressIndex
func (d evmDeriver) DeriveAccount(master *bip32.Key, index uint32) (*Account, error) {
	if index >= hardenedOffset {
		return nil, walleterr.New(walleterr.CodeDerivationFailed, "Account index out of range")
	}

	path := d.GetBIP44Path(index)
	privateKey, err := d.DerivePrivateKey(master, path)
	if err != nil {
		return nil, err
	}

	publicKey, err := PublicKeyFromPrivate(privateKey)
	if err != nil {
		secret.Zero(privateKey)
		return nil, walleterr.Wrap(err, walleterr.CodeDerivationFailed, "Failed to derive account")
	}

	return &Account{
		Address:        PublicKeyToAddress(publicKey),
		PrivateKey:     secret.New(privateKey),
		PublicKey:      publicKey,
		DerivationPath: path,
		Index:          index,
	}, nil
}

// DerivePrivateKey derives a private key from the master key and BIP44 path
// WARNING: Caller must clear the private key after use
func (evmDeriver) DerivePrivateKey(master *bip32.Key, path string) ([]byte, error) {
	if master == nil {
		return nil, walleterr.New(walleterr.CodeNotInitialized, "Key manager not initialized")
	}

	derivedKey, err := deriveKeyFromPath(master, path)
	if err != nil {
		return nil, walleterr.Wrap(err, walleterr.CodeDerivationFailed, "Failed to derive account")
	}
	if !derivedKey.IsPrivate || len(derivedKey.Key) == 0 {
		return nil, walleterr.New(walleterr.CodeDerivationFailed, "Failed to derive private key")
	}

	// Return private key (32 bytes)
	return common.LeftPadBytes(derivedKey.Key, privateKeyBytes), nil
}

// PublicKeyFromPrivate returns the 65 byte uncompressed public key
func PublicKeyFromPrivate(privateKey []byte) ([]byte, error) {
	ecdsaPrivateKey, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert to ECDSA private key")
	}
	return crypto.FromECDSAPub(&ecdsaPrivateKey.PublicKey), nil
}

// PublicKeyToAddress hashes an uncompressed public key into an EIP-55 address:
// the low 20 bytes of keccak256(publicKey[1:]).
func PublicKeyToAddress(publicKey []byte) string {
	hash := crypto.Keccak256(publicKey[1:])
	return common.BytesToAddress(hash[12:]).Hex()
}

// deriveKeyFromPath derives a key from BIP44 path
// Path format: m/44'/60'/0'/0/{index}
func deriveKeyFromPath(masterKey *bip32.Key, path string) (*bip32.Key, error) {
	indices, err := ParseBIP44Path(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse BIP44 path")
	}

	// Derive key step by step
	key := masterKey
	for _, index := range indices {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	return key, nil
}

// ParseBIP44Path parses a BIP44 path string into indices
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func ParseBIP44Path(path string) ([]uint32, error) {
	if path == "m" {
		return []uint32{}, nil
	}
	if !strings.HasPrefix(path, "m/") {
		return nil, fmt.Errorf("invalid BIP44 path: %s", path)
	}

	parts := strings.Split(path[2:], "/")
	indices := make([]uint32, 0, len(parts))
	for _, part := range parts {
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		if hardened {
			part = part[:len(part)-1]
		}

		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || uint32(index) >= hardenedOffset {
			return nil, fmt.Errorf("invalid path segment: %s", part)
		}

		// Add hardened flag (0x80000000)
		if hardened {
			index += uint64(hardenedOffset)
		}

		indices = append(indices, uint32(index))
	}

	return indices, nil
}
