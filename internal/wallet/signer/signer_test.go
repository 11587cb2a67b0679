package signer_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-wallet/internal/wallet/signer"
	"github/chapool/evm-wallet/internal/wallet/transaction"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const (
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	recipient      = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func privateKey(t *testing.T) []byte {
	t.Helper()
	key, err := hex.DecodeString(testPrivateKey)
	require.NoError(t, err)
	return key
}

func transfer(t *testing.T, chainID string) *transaction.UnsignedTransaction {
	t.Helper()
	tx, err := transaction.FromParams(transaction.Params{
		To:       recipient,
		Value:    "1000000000000000000",
		Nonce:    "0",
		GasPrice: "20000000000",
		GasLimit: "21000",
		ChainID:  chainID,
	})
	require.NoError(t, err)
	return tx
}

func decodeGeth(t *testing.T, raw string) *types.Transaction {
	t.Helper()
	encoded, err := hex.DecodeString(raw[2:])
	require.NoError(t, err)

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(encoded))
	return &tx
}

func TestSignTransactionVerifiesWithGeth(t *testing.T) {
	svc := signer.NewService()

	for _, chainID := range []int64{1, 137, 42161, 11155111} {
		unsigned := transfer(t, big.NewInt(chainID).String())

		signed, err := svc.SignTransaction(context.Background(), unsigned, privateKey(t))
		require.NoError(t, err)

		// v law
		base := chainID*2 + 35
		v := signed.V.Int64()
		assert.True(t, v == base || v == base+1, "chain %d: unexpected v %d", chainID, v)
		assert.Equal(t, uint(v-base), signed.RecoveryID())

		gethTx := decodeGeth(t, signed.RawTransaction)
		assert.Equal(t, signed.Hash, gethTx.Hash().Hex())
		assert.Equal(t, chainID, gethTx.ChainId().Int64())

		sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(chainID)), gethTx)
		require.NoError(t, err)
		assert.Equal(t, testAddress, sender.Hex())
	}
}

func TestSignatureRecovers(t *testing.T) {
	signed, err := signer.NewService().SignTransaction(context.Background(), transfer(t, "1"), privateKey(t))
	require.NoError(t, err)

	payload, err := rlp.EncodeToBytes([]interface{}{
		big.NewInt(0), big.NewInt(20000000000), uint64(21000),
		common.HexToAddress(recipient), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil), []byte{},
		big.NewInt(1), uint(0), uint(0),
	})
	require.NoError(t, err)

	sig := make([]byte, 65)
	signed.R.FillBytes(sig[:32])
	signed.S.FillBytes(sig[32:64])
	sig[64] = byte(signed.RecoveryID())

	pub, err := crypto.SigToPub(crypto.Keccak256(payload), sig)
	require.NoError(t, err)
	assert.Equal(t, testAddress, crypto.PubkeyToAddress(*pub).Hex())
}

func TestSignTransactionIsHedged(t *testing.T) {
	svc := signer.NewService()
	tx := transfer(t, "1")

	first, err := svc.SignTransaction(context.Background(), tx, privateKey(t))
	require.NoError(t, err)
	second, err := svc.SignTransaction(context.Background(), tx, privateKey(t))
	require.NoError(t, err)

	assert.NotEqual(t, first.R.String(), second.R.String())
	assert.NotEqual(t, first.RawTransaction, second.RawTransaction)

	// both remain valid
	for _, s := range []*signer.SignedTransaction{first, second} {
		sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(1)), decodeGeth(t, s.RawTransaction))
		require.NoError(t, err)
		assert.Equal(t, testAddress, sender.Hex())
	}
}

func TestLowS(t *testing.T) {
	halfOrder := new(big.Int).Rsh(crypto.S256().Params().N, 1)

	for i := 0; i < 16; i++ {
		signed, err := signer.NewService().SignTransaction(context.Background(), transfer(t, "1"), privateKey(t))
		require.NoError(t, err)
		assert.LessOrEqual(t, signed.S.Cmp(halfOrder), 0)
	}
}

func TestRoundTrip(t *testing.T) {
	unsigned, err := transaction.FromParams(transaction.Params{
		To:       "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc",
		Value:    "500000000000000000",
		Nonce:    "100",
		GasPrice: "50000000000",
		GasLimit: "200000",
		ChainID:  "42161",
		Data:     "0x23b872dd",
	})
	require.NoError(t, err)

	signed, err := signer.NewService().SignTransaction(context.Background(), unsigned, privateKey(t))
	require.NoError(t, err)

	decoded, sender, err := signer.DecodeRawTransaction(signed.RawTransaction)
	require.NoError(t, err)

	assert.Equal(t, testAddress, sender)
	assert.Equal(t, unsigned.Nonce().String(), decoded.Nonce().String())
	assert.Equal(t, unsigned.GasPrice().String(), decoded.GasPrice().String())
	assert.Equal(t, unsigned.GasLimit(), decoded.GasLimit())
	assert.Equal(t, unsigned.To(), decoded.To())
	assert.Equal(t, unsigned.Value().String(), decoded.Value().String())
	assert.Equal(t, unsigned.DataHex(), decoded.DataHex())
	assert.Equal(t, int64(42161), decoded.ChainID())
	assert.Equal(t, signed.Hash, decoded.Hash)
	assert.Equal(t, 0, signed.V.Cmp(decoded.V))
	assert.Equal(t, 0, signed.R.Cmp(decoded.R))
	assert.Equal(t, 0, signed.S.Cmp(decoded.S))
}

func TestContractCreation(t *testing.T) {
	unsigned, err := transaction.FromParams(transaction.Params{
		To:       "",
		Value:    "0",
		Nonce:    "0",
		GasPrice: "20000000000",
		GasLimit: "3000000",
		ChainID:  "1",
		Data:     "0x608060405234801561001057600080fd5b50",
	})
	require.NoError(t, err)

	signed, err := signer.NewService().SignTransaction(context.Background(), unsigned, privateKey(t))
	require.NoError(t, err)

	gethTx := decodeGeth(t, signed.RawTransaction)
	assert.Nil(t, gethTx.To())
	assert.Equal(t, "608060405234801561001057600080fd5b50", hex.EncodeToString(gethTx.Data()))

	decoded, _, err := signer.DecodeRawTransaction(signed.RawTransaction)
	require.NoError(t, err)
	assert.True(t, decoded.IsContractCreation())
}

func TestZeroValuesEncodeAsEmptyString(t *testing.T) {
	unsigned := transaction.New(transaction.Fields{
		Nonce:    big.NewInt(0),
		GasPrice: big.NewInt(0),
		GasLimit: 21000,
		To:       recipient,
		Value:    big.NewInt(0),
		ChainID:  1,
	})

	signed, err := signer.NewService().SignTransaction(context.Background(), unsigned, privateKey(t))
	require.NoError(t, err)

	var fields []rlp.RawValue
	encoded, err := hex.DecodeString(signed.RawTransaction[2:])
	require.NoError(t, err)
	require.NoError(t, rlp.DecodeBytes(encoded, &fields))
	require.Len(t, fields, 9)

	assert.Equal(t, []byte{0x80}, []byte(fields[0])) // nonce
	assert.Equal(t, []byte{0x80}, []byte(fields[1])) // gasPrice
	assert.Equal(t, []byte{0x80}, []byte(fields[4])) // value
	assert.Equal(t, []byte{0x80}, []byte(fields[5])) // data
}

func TestSignTransactionValidation(t *testing.T) {
	valid := transaction.Fields{
		Nonce:    big.NewInt(0),
		GasPrice: big.NewInt(1),
		GasLimit: 21000,
		To:       recipient,
		Value:    big.NewInt(0),
		ChainID:  1,
	}

	tests := []struct {
		name   string
		mutate func(f *transaction.Fields)
		code   walleterr.Code
		field  string
	}{
		{"bad recipient", func(f *transaction.Fields) { f.To = "0x1234" }, walleterr.CodeInvalidAddress, "to"},
		{"gas too low", func(f *transaction.Fields) { f.GasLimit = 20999 }, walleterr.CodeInvalidGasLimit, "gasLimit"},
		{"gas too high", func(f *transaction.Fields) { f.GasLimit = 30000001 }, walleterr.CodeInvalidGasLimit, "gasLimit"},
		{"negative value", func(f *transaction.Fields) { f.Value = big.NewInt(-1) }, walleterr.CodeInvalidValue, "value"},
		{"negative gas price", func(f *transaction.Fields) { f.GasPrice = big.NewInt(-1) }, walleterr.CodeInvalidGasPrice, "gasPrice"},
		{"negative nonce", func(f *transaction.Fields) { f.Nonce = big.NewInt(-1) }, walleterr.CodeInvalidNonce, "nonce"},
		{"zero chain id", func(f *transaction.Fields) { f.ChainID = 0 }, walleterr.CodeInvalidChainID, "chainId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)

			_, err := signer.NewService().SignTransaction(context.Background(), transaction.New(f), privateKey(t))
			var walletErr *walleterr.Error
			require.ErrorAs(t, err, &walletErr)
			assert.Equal(t, tt.code, walletErr.Code)
			assert.Equal(t, tt.field, walletErr.Field)
		})
	}
}

func TestSignTransactionInvalidPrivateKey(t *testing.T) {
	tx := transfer(t, "1")
	order, _ := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

	for _, key := range [][]byte{nil, make([]byte, 32), make([]byte, 31), order} {
		_, err := signer.NewService().SignTransaction(context.Background(), tx, key)
		assert.Equal(t, walleterr.CodeInvalidPrivateKey, walleterr.CodeOf(err))
	}
}

func TestSignedTransactionJSON(t *testing.T) {
	signed, err := signer.NewService().SignTransaction(context.Background(), transfer(t, "1"), privateKey(t))
	require.NoError(t, err)

	raw, err := json.Marshal(signed)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))

	for _, key := range []string{"nonce", "gasPrice", "gasLimit", "to", "value", "data", "chainId", "v", "r", "s", "hash", "rawTransaction"} {
		_, isString := out[key].(string)
		assert.True(t, isString, key)
	}
	assert.Equal(t, "1000000000000000000", out["value"])
	assert.Equal(t, signed.R.String(), out["r"])
}

func TestDecodeRawTransactionErrors(t *testing.T) {
	_, _, err := signer.DecodeRawTransaction("0xzz")
	assert.Equal(t, walleterr.CodeInvalidTransaction, walleterr.CodeOf(err))

	_, _, err = signer.DecodeRawTransaction("0xc0")
	assert.Equal(t, walleterr.CodeInvalidTransaction, walleterr.CodeOf(err))
}

func TestDecodeRawTransactionRejectsOversizedChainID(t *testing.T) {
	v := new(big.Int).Lsh(big.NewInt(1), 100)
	encoded, err := rlp.EncodeToBytes([]interface{}{
		uint64(0),
		big.NewInt(1),
		uint64(21000),
		common.HexToAddress(recipient).Bytes(),
		big.NewInt(0),
		[]byte{},
		v,
		big.NewInt(1),
		big.NewInt(1),
	})
	require.NoError(t, err)

	_, _, err = signer.DecodeRawTransaction("0x" + hex.EncodeToString(encoded))
	require.Error(t, err)
	assert.Equal(t, walleterr.CodeInvalidTransaction, walleterr.CodeOf(err))
	assert.Contains(t, err.Error(), "chain id")
}
