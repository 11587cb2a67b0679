package address_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/evm-wallet/internal/wallet/address"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const testMnemonic = "test test test test test test test test test test test junk"

func testMaster(t *testing.T) *bip32.Key {
	t.Helper()
	master, err := bip32.NewMasterKey(bip39.NewSeed(testMnemonic, ""))
	require.NoError(t, err)
	return master
}

func TestDeriveAccountVectors(t *testing.T) {
	vectors := []struct {
		index      uint32
		address    string
		privateKey string
	}{
		{0, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"},
		{1, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"},
		{2, "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC", "5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a"},
		{3, "0x90F79bf6EB2c4f870365E785982E1f101E93b906", "7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6"},
		{4, "0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65", "47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a"},
	}

	deriver := address.NewDeriver()
	master := testMaster(t)

	for _, v := range vectors {
		account, err := deriver.DeriveAccount(master, v.index)
		require.NoError(t, err)

		assert.Equal(t, v.address, account.Address)
		assert.Equal(t, v.privateKey, hex.EncodeToString(account.PrivateKey.Bytes()))
		assert.Len(t, account.PublicKey, 65)
		assert.Equal(t, byte(0x04), account.PublicKey[0])
		assert.Equal(t, deriver.GetBIP44Path(v.index), account.DerivationPath)
		assert.Equal(t, v.index, account.Index)

		account.Dispose()
		assert.True(t, account.PrivateKey.Wiped())
	}
}

func TestDeriveAccountOutOfRange(t *testing.T) {
	_, err := address.NewDeriver().DeriveAccount(testMaster(t), 0x80000000)
	require.Error(t, err)
	assert.Equal(t, walleterr.CodeDerivationFailed, walleterr.CodeOf(err))
}

func TestDerivePrivateKeyWithoutMaster(t *testing.T) {
	_, err := address.NewDeriver().DerivePrivateKey(nil, "m/44'/60'/0'/0/0")
	assert.Equal(t, walleterr.CodeNotInitialized, walleterr.CodeOf(err))
}

func TestGetBIP44Path(t *testing.T) {
	assert.Equal(t, "m/44'/60'/0'/0/7", address.NewDeriver().GetBIP44Path(7))
}

func TestParseBIP44Path(t *testing.T) {
	indices, err := address.ParseBIP44Path("m/44'/60'/0'/0/0")
	require.NoError(t, err)
	assert.Equal(t, []uint32{2147483692, 2147483708, 2147483648, 0, 0}, indices)

	indices, err = address.ParseBIP44Path("m/44h/60h/1")
	require.NoError(t, err)
	assert.Equal(t, []uint32{2147483692, 2147483708, 1}, indices)

	for _, bad := range []string{"", "44'/60'", "m/x", "m/44'//0", "m/2147483648"} {
		_, err := address.ParseBIP44Path(bad)
		assert.Error(t, err, bad)
	}
}

func TestPublicKeyToAddress(t *testing.T) {
	privateKey, err := hex.DecodeString("ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)

	publicKey, err := address.PublicKeyFromPrivate(privateKey)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", address.PublicKeyToAddress(publicKey))

	_, err = address.PublicKeyFromPrivate(make([]byte, 32))
	assert.Error(t, err)
}
