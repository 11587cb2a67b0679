// Package signer produces EIP-155 signed legacy transactions.
package signer

import (
	"bytes"
	"context"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/wallet/address"
	"github/chapool/evm-wallet/internal/wallet/transaction"
	"github/chapool/evm-wallet/internal/wallet/validate"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

var errRecoveryMismatch = errors.New("signature does not recover to the signing key")

type service struct{}

// NewService creates a new SignerService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService() Service {
	return &service{}
}

// SignTransaction signs an EVM transaction (legacy, EIP-155)
func (s *service) SignTransaction(ctx context.Context, tx *transaction.UnsignedTransaction, privateKey []byte) (*SignedTransaction, error) {
	d, ok := parsePrivateKey(privateKey)
	if !ok {
		return nil, walleterr.New(walleterr.CodeInvalidPrivateKey, "Invalid private key format")
	}
	defer d.Zero()

	if tx == nil {
		return nil, walleterr.New(walleterr.CodeSigningFailed, "Failed to sign transaction")
	}

	fields := tx.Fields()
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	signed, err := sign(fields, d, privateKey)
	if err != nil {
		util.LogFromContext(ctx).Error().Err(err).Int64("chain_id", fields.ChainID).Msg("Failed to sign transaction")
		return nil, walleterr.Wrap(err, walleterr.CodeSigningFailed, "Failed to sign transaction")
	}

	signed.UnsignedTransaction = tx
	return signed, nil
}

func sign(fields transaction.Fields, d *secp256k1.ModNScalar, privateKey []byte) (*SignedTransaction, error) {
	hash, err := signingHash(fields)
	if err != nil {
		return nil, err
	}

	sig, err := signHedged(d, privateKey, hash)
	if err != nil {
		return nil, err
	}

	if err := verifyRecovery(hash, sig, privateKey); err != nil {
		return nil, err
	}

	v := eip155V(fields.ChainID, sig.recoveryID)
	r := new(big.Int).SetBytes(sig.r[:])
	sv := new(big.Int).SetBytes(sig.s[:])

	raw, err := encodeSigned(fields, v, r, sv)
	if err != nil {
		return nil, err
	}

	return &SignedTransaction{
		V:              v,
		R:              r,
		S:              sv,
		Hash:           hexutil.Encode(crypto.Keccak256(raw)),
		RawTransaction: hexutil.Encode(raw),
	}, nil
}

// verifyRecovery checks that the signature recovers to the signing key
func verifyRecovery(hash []byte, sig *signature, privateKey []byte) error {
	recovered, err := crypto.Ecrecover(hash, sig.compact())
	if err != nil {
		return err
	}

	expected, err := address.PublicKeyFromPrivate(privateKey)
	if err != nil {
		return err
	}

	if !bytes.Equal(recovered, expected) {
		return errRecoveryMismatch
	}
	return nil
}

// validateFields checks a transaction that may not have come from a Builder
func validateFields(f transaction.Fields) error {
	if f.To != "" && !validate.IsHexAddress(f.To) {
		return walleterr.NewField(walleterr.CodeInvalidAddress, "Invalid recipient address format", validate.FieldTo)
	}
	if f.GasLimit < validate.MinGasLimit {
		return walleterr.NewField(walleterr.CodeInvalidGasLimit, "Gas limit too low (minimum 21000)", validate.FieldGasLimit)
	}
	if f.GasLimit > validate.MaxGasLimit {
		return walleterr.NewField(walleterr.CodeInvalidGasLimit, "Gas limit too high (maximum 30000000)", validate.FieldGasLimit)
	}
	if f.Value.Sign() < 0 {
		return walleterr.NewField(walleterr.CodeInvalidValue, "Value cannot be negative", validate.FieldValue)
	}
	if f.GasPrice.Sign() < 0 {
		return walleterr.NewField(walleterr.CodeInvalidGasPrice, "Gas price cannot be negative", validate.FieldGasPrice)
	}
	if f.Nonce.Sign() < 0 {
		return walleterr.NewField(walleterr.CodeInvalidNonce, "Nonce cannot be negative", validate.FieldNonce)
	}
	if f.ChainID <= 0 {
		return walleterr.NewField(walleterr.CodeInvalidChainID, "Invalid chain ID", validate.FieldChainID)
	}
	return nil
}
