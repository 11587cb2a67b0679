package signer

import (
	"context"
	"encoding/json"
	"math/big"

	"github/chapool/evm-wallet/internal/wallet/transaction"
)

// Service provides transaction signing functionality
type Service interface {
	// SignTransaction signs a legacy transaction per EIP-155. Repeated calls
	// with the same input yield different (r, s), all valid.
	// The caller keeps ownership of privateKey and must wipe it.
	SignTransaction(ctx context.Context, tx *transaction.UnsignedTransaction, privateKey []byte) (*SignedTransaction, error)
}

// SignedTransaction is an unsigned transaction plus its signature and
// encoding
type SignedTransaction struct {
	*transaction.UnsignedTransaction

	V *big.Int
	R *big.Int
	S *big.Int

	Hash           string // keccak256 of the raw transaction, 0x prefixed
	RawTransaction string // RLP encoding, 0x prefixed hex
}

// SignedJSON is the wire form of a signed transaction. All quantities are
// decimal strings.
type SignedJSON struct {
	transaction.JSON

	V              string `json:"v"`
	R              string `json:"r"`
	S              string `json:"s"`
	Hash           string `json:"hash"`
	RawTransaction string `json:"rawTransaction"`
}

// ToJSON converts the signed transaction to its wire form
func (s *SignedTransaction) ToJSON() SignedJSON {
	return SignedJSON{
		JSON:           s.UnsignedTransaction.ToJSON(),
		V:              s.V.String(),
		R:              s.R.String(),
		S:              s.S.String(),
		Hash:           s.Hash,
		RawTransaction: s.RawTransaction,
	}
}

func (s *SignedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToJSON())
}

// RecoveryID returns the signature parity bit encoded in V
func (s *SignedTransaction) RecoveryID() uint {
	return recoveryID(s.V, s.ChainID())
}

func recoveryID(v *big.Int, chainID int64) uint {
	base := new(big.Int).SetInt64(chainID)
	base.Mul(base, big.NewInt(2)).Add(base, big.NewInt(eip155Offset))
	return uint(new(big.Int).Sub(v, base).Uint64())
}
