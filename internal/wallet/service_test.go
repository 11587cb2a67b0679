package wallet_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-wallet/internal/wallet"
	"github/chapool/evm-wallet/internal/wallet/broadcast"
	"github/chapool/evm-wallet/internal/wallet/chain"
	"github/chapool/evm-wallet/internal/wallet/transaction"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const (
	firstAddress  = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	secondAddress = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func transferParams(chainID string) transaction.Params {
	return transaction.Params{
		To:       secondAddress,
		Value:    "1",
		Nonce:    "0",
		GasPrice: "20000000000",
		GasLimit: "21000",
		ChainID:  chainID,
	}
}

func TestNotInitialized(t *testing.T) {
	w := wallet.New(wallet.Config{})
	defer w.Dispose()

	assert.False(t, w.IsInitialized())

	_, err := w.DeriveAccount(0)
	require.Error(t, err)
	assert.Equal(t, walleterr.CodeWalletNotInitialized, walleterr.CodeOf(err))
	assert.Equal(t, "Wallet not initialized. Call createFromMnemonic first.", err.Error())
}

func TestCreateFromMnemonic(t *testing.T) {
	w := wallet.New(wallet.Config{})
	defer w.Dispose()

	require.NoError(t, w.CreateFromMnemonic(wallet.DemoMnemonic))
	assert.True(t, w.IsInitialized())

	addr, err := w.GetAddress(0)
	require.NoError(t, err)
	assert.Equal(t, firstAddress, addr)

	info, err := w.GetAccountInfo(1)
	require.NoError(t, err)
	assert.Equal(t, secondAddress, info.Address)
	assert.Equal(t, "m/44'/60'/0'/0/1", info.DerivationPath)

	// a failed re-initialization leaves the wallet empty
	err = w.CreateFromMnemonic("invalid mnemonic phrase")
	assert.Equal(t, walleterr.CodeInvalidMnemonicLength, walleterr.CodeOf(err))
	assert.False(t, w.IsInitialized())
}

func TestDispose(t *testing.T) {
	w, err := wallet.NewDemo(wallet.Config{})
	require.NoError(t, err)

	w.Dispose()
	w.Dispose()

	_, err = w.GetAddress(0)
	assert.Equal(t, walleterr.CodeWalletNotInitialized, walleterr.CodeOf(err))
}

func TestSignTransaction(t *testing.T) {
	w, err := wallet.NewDemo(wallet.Config{})
	require.NoError(t, err)
	defer w.Dispose()

	tx, err := w.BuildTransaction(transferParams("137"))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", tx.Value().String())

	signed, err := w.SignTransaction(context.Background(), tx, 1)
	require.NoError(t, err)

	raw := strings.TrimPrefix(signed.RawTransaction, "0x")
	var gethTx types.Transaction
	require.NoError(t, gethTx.UnmarshalBinary(mustHex(t, raw)))

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(137)), &gethTx)
	require.NoError(t, err)
	assert.Equal(t, secondAddress, sender.Hex())
}

func TestCreateSignedTransactionWithoutBroadcast(t *testing.T) {
	w := wallet.New(wallet.Config{})
	defer w.Dispose()

	result, err := w.CreateSignedTransaction(context.Background(), wallet.Request{
		Mnemonic: wallet.DemoMnemonic,
		Params:   transferParams("1"),
	})
	require.NoError(t, err)
	assert.Empty(t, result.TxHash)
	assert.NotEmpty(t, result.Signed.RawTransaction)

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "txHash")
	assert.Contains(t, string(out), `"signed":{`)
}

func TestCreateSignedTransactionBroadcast(t *testing.T) {
	var hits atomic.Int32
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"0xabc"}`, req.ID)
	}))
	defer node.Close()

	b := broadcast.New(broadcast.Config{
		Providers: []broadcast.Provider{{Name: "local", URL: node.URL, Priority: 1, IsHealthy: true}},
		Lookup:    func(int64) (chain.Network, bool) { return chain.Network{}, false },
	})

	result, err := wallet.SignOnce(context.Background(), wallet.Config{Broadcaster: b}, wallet.Request{
		Mnemonic:  wallet.DemoMnemonic,
		Broadcast: true,
		Params:    transferParams("31337"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", result.TxHash)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCreateSignedTransactionValidation(t *testing.T) {
	w, err := wallet.NewDemo(wallet.Config{})
	require.NoError(t, err)
	defer w.Dispose()

	params := transferParams("1")
	params.GasLimit = "20999"

	_, err = w.CreateSignedTransaction(context.Background(), wallet.Request{Params: params})
	assert.Equal(t, walleterr.CodeGasLimitTooLow, walleterr.CodeOf(err))

	_, err = wallet.SignOnce(context.Background(), wallet.Config{}, wallet.Request{Params: transferParams("1")})
	assert.Equal(t, walleterr.CodeWalletNotInitialized, walleterr.CodeOf(err))
}

func TestCreateSignedTransactionWarnings(t *testing.T) {
	w, err := wallet.NewDemo(wallet.Config{})
	require.NoError(t, err)
	defer w.Dispose()

	params := transferParams("1")
	params.GasPrice = "2000000000000"

	result, err := w.CreateSignedTransaction(context.Background(), wallet.Request{Params: params})
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 1)
}

func TestPassthroughs(t *testing.T) {
	w := wallet.New(wallet.Config{})

	addr, err := w.ValidateAddress("0x742d35cc6634c0532925a3b844bc9e7595f8f832")
	require.NoError(t, err)
	assert.Equal(t, "0x742D35cC6634c0532925A3B844Bc9e7595F8F832", addr)

	wei, err := w.ConvertToWei("1", "")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", wei.String())

	wei, err = w.ConvertToWei("1", "gwei")
	require.NoError(t, err)
	assert.Equal(t, "1000000000", wei.String())
}

func TestMnemonicSource(t *testing.T) {
	m, err := wallet.MnemonicSource{Flag: " a b ", Env: "c"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "a b", m)

	m, err = wallet.MnemonicSource{Env: "c d"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "c d", m)

	var out strings.Builder
	m, err = wallet.MnemonicSource{Input: strings.NewReader(wallet.DemoMnemonic + "\n"), Output: &out}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, wallet.DemoMnemonic, m)
	assert.Contains(t, out.String(), "recovery phrase")

	_, err = wallet.MnemonicSource{Input: strings.NewReader(""), Output: &out}.Resolve()
	assert.Error(t, err)
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
