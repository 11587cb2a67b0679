package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github/chapool/evm-wallet/internal/wallet/transaction"
)

// v = chainId * 2 + 35 + recoveryId
const eip155Offset = 35

// signingPayload is [nonce, gasPrice, gasLimit, to, value, data, chainId, 0, 0]
func signingPayload(f transaction.Fields) []interface{} {
	return []interface{}{
		f.Nonce,
		f.GasPrice,
		f.GasLimit,
		toBytes(f.To),
		f.Value,
		f.Data,
		big.NewInt(f.ChainID),
		uint(0),
		uint(0),
	}
}

// signingHash is keccak256 of the RLP encoded EIP-155 signing payload
func signingHash(f transaction.Fields) ([]byte, error) {
	encoded, err := rlp.EncodeToBytes(signingPayload(f))
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(encoded), nil
}

// encodeSigned is the RLP of [nonce, gasPrice, gasLimit, to, value, data, v, r, s]
func encodeSigned(f transaction.Fields, v, r, s *big.Int) ([]byte, error) {
	return rlp.EncodeToBytes([]interface{}{
		f.Nonce,
		f.GasPrice,
		f.GasLimit,
		toBytes(f.To),
		f.Value,
		f.Data,
		v,
		r,
		s,
	})
}

func eip155V(chainID int64, recovery byte) *big.Int {
	v := big.NewInt(chainID)
	v.Mul(v, big.NewInt(2))
	return v.Add(v, big.NewInt(eip155Offset+int64(recovery)))
}

// toBytes encodes an empty recipient as the empty string, which RLP
// encodes as 0x80
func toBytes(to string) []byte {
	if to == "" {
		return []byte{}
	}
	return common.HexToAddress(to).Bytes()
}
