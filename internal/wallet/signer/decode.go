package signer

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github/chapool/evm-wallet/internal/wallet/address"
	"github/chapool/evm-wallet/internal/wallet/transaction"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

// legacyEnvelope is the nine field RLP list of a signed legacy transaction
type legacyEnvelope struct {
	Nonce    *big.Int
	GasPrice *big.Int
	GasLimit uint64
	To       []byte
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

// DecodeRawTransaction parses a 0x prefixed signed legacy transaction and
// recovers its chain id and sender. Pre EIP-155 signatures (v of 27 or 28)
// decode with chain id 0 and no sender.
func DecodeRawTransaction(raw string) (*SignedTransaction, string, error) {
	if !strings.HasPrefix(raw, "0x") {
		raw = "0x" + raw
	}

	encoded, err := hexutil.Decode(raw)
	if err != nil {
		return nil, "", walleterr.Wrap(err, walleterr.CodeInvalidTransaction, "Invalid transaction: not a hex string")
	}

	var env legacyEnvelope
	if err := rlp.DecodeBytes(encoded, &env); err != nil {
		return nil, "", walleterr.Wrap(err, walleterr.CodeInvalidTransaction, "Invalid transaction: not a legacy RLP transaction")
	}

	to := ""
	switch len(env.To) {
	case 0:
	case common.AddressLength:
		to = common.BytesToAddress(env.To).Hex()
	default:
		return nil, "", walleterr.New(walleterr.CodeInvalidTransaction, "Invalid transaction: malformed recipient")
	}

	chainID, ok := chainIDFromV(env.V)
	if !ok {
		return nil, "", walleterr.New(walleterr.CodeInvalidTransaction, "Invalid transaction: chain id out of range")
	}

	signed := &SignedTransaction{
		UnsignedTransaction: transaction.New(transaction.Fields{
			Nonce:    env.Nonce,
			GasPrice: env.GasPrice,
			GasLimit: env.GasLimit,
			To:       to,
			Value:    env.Value,
			Data:     env.Data,
			ChainID:  chainID,
		}),
		V:              env.V,
		R:              env.R,
		S:              env.S,
		Hash:           hexutil.Encode(crypto.Keccak256(encoded)),
		RawTransaction: hexutil.Encode(encoded),
	}

	if chainID == 0 {
		return signed, "", nil
	}

	sender, err := recoverSender(signed)
	if err != nil {
		return nil, "", walleterr.Wrap(err, walleterr.CodeInvalidTransaction, "Invalid transaction: signature does not recover")
	}
	return signed, sender, nil
}

// chainIDFromV returns (v - 35) / 2 for EIP-155 signatures, 0 otherwise.
// ok is false when the id does not fit an int64.
func chainIDFromV(v *big.Int) (int64, bool) {
	if v.Cmp(big.NewInt(eip155Offset)) < 0 {
		return 0, true
	}
	id := new(big.Int).Sub(v, big.NewInt(eip155Offset))
	id.Rsh(id, 1)
	if !id.IsInt64() {
		return 0, false
	}
	return id.Int64(), true
}

func recoverSender(tx *SignedTransaction) (string, error) {
	if tx.R.BitLen() > 256 || tx.S.BitLen() > 256 {
		return "", errors.New("signature values exceed 256 bits")
	}

	hash, err := signingHash(tx.Fields())
	if err != nil {
		return "", err
	}

	sig := make([]byte, 65)
	tx.R.FillBytes(sig[:32])
	tx.S.FillBytes(sig[32:64])
	sig[64] = byte(tx.RecoveryID())

	publicKey, err := crypto.Ecrecover(hash, sig)
	if err != nil {
		return "", err
	}
	return address.PublicKeyToAddress(publicKey), nil
}
