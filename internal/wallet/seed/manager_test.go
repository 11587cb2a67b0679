package seed_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-wallet/internal/wallet/seed"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const testMnemonic = "test test test test test test test test test test test junk"

func TestManagerLifecycle(t *testing.T) {
	m := seed.NewManager()
	assert.Equal(t, seed.StateUninitialized, m.State())
	assert.False(t, m.IsInitialized())
	assert.Nil(t, m.GetSeed())

	_, err := m.DeriveAccount(0)
	assert.Equal(t, walleterr.CodeNotInitialized, walleterr.CodeOf(err))

	require.NoError(t, m.Initialize(testMnemonic, ""))
	assert.Equal(t, seed.StateInitialized, m.State())
	assert.Len(t, m.GetSeed(), 64)

	account, err := m.DeriveAccount(0)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", account.Address)

	m.Dispose()
	assert.Equal(t, seed.StateDisposed, m.State())
	assert.Nil(t, m.GetSeed())

	_, err = m.DeriveAccount(0)
	assert.Equal(t, walleterr.CodeNotInitialized, walleterr.CodeOf(err))

	// repeated disposal is safe
	m.Dispose()
	assert.Equal(t, seed.StateDisposed, m.State())

	err = m.Initialize(testMnemonic, "")
	assert.Equal(t, walleterr.CodeNotInitialized, walleterr.CodeOf(err))
}

func TestManagerDeterminism(t *testing.T) {
	first, err := seed.FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	defer first.Dispose()

	second, err := seed.FromMnemonic("  TEST test test test test test test test test test test   junk ", "")
	require.NoError(t, err)
	defer second.Dispose()

	for index := uint32(0); index < 3; index++ {
		a, err := first.DeriveAccount(index)
		require.NoError(t, err)
		b, err := first.DeriveAccount(index)
		require.NoError(t, err)
		c, err := second.DeriveAccount(index)
		require.NoError(t, err)

		assert.Equal(t, a.Address, b.Address)
		assert.Equal(t, a.PrivateKey.Bytes(), b.PrivateKey.Bytes())
		assert.Equal(t, a.Address, c.Address)
	}

	account, err := first.DeriveAccount(1)
	require.NoError(t, err)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", account.Address)
}

func TestManagerSeedVector(t *testing.T) {
	m, err := seed.FromMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "")
	require.NoError(t, err)
	defer m.Dispose()

	assert.Equal(t,
		"5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4",
		hex.EncodeToString(m.GetSeed()))
}

func TestManagerPassphraseChangesAccounts(t *testing.T) {
	plain, err := seed.FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	defer plain.Dispose()

	salted, err := seed.FromMnemonic(testMnemonic, "hunter2")
	require.NoError(t, err)
	defer salted.Dispose()

	a, err := plain.DeriveAccount(0)
	require.NoError(t, err)
	b, err := salted.DeriveAccount(0)
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, b.Address)
}

func TestValidateMnemonic(t *testing.T) {
	valid := []string{
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		"legal winner thank year wave sausage worth useful legal winner thank yellow",
		testMnemonic,
	}
	for _, m := range valid {
		assert.NoError(t, seed.ValidateMnemonic(m), m)
	}

	tests := []struct {
		mnemonic string
		code     walleterr.Code
	}{
		{"invalid mnemonic phrase", walleterr.CodeInvalidMnemonicLength},
		{"", walleterr.CodeInvalidMnemonicLength},
		{"one two three four five six seven eight nine ten eleven", walleterr.CodeInvalidMnemonicLength},
		{"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon invalid", walleterr.CodeInvalidMnemonicWords},
		{"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", walleterr.CodeInvalidMnemonicChecksum},
	}
	for _, tt := range tests {
		err := seed.ValidateMnemonic(tt.mnemonic)
		assert.Equal(t, tt.code, walleterr.CodeOf(err), tt.mnemonic)
	}

	err := seed.ValidateMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon xyzzy plugh")
	require.Error(t, err)
	assert.Equal(t, "Invalid words found: xyzzy, plugh", err.Error())
}

func TestInitializeFailureLeavesUninitialized(t *testing.T) {
	m := seed.NewManager()
	err := m.Initialize("abandon abandon abandon", "")
	assert.Equal(t, walleterr.CodeInvalidMnemonicLength, walleterr.CodeOf(err))
	assert.Equal(t, seed.StateUninitialized, m.State())

	_, err = seed.FromMnemonic("abandon abandon abandon", "")
	assert.Error(t, err)
}

func TestGenerateMnemonic(t *testing.T) {
	for bits, words := range map[int]int{128: 12, 256: 24} {
		mnemonic, err := seed.GenerateMnemonic(bits)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(mnemonic), words)
		assert.NoError(t, seed.ValidateMnemonic(mnemonic))
	}

	_, err := seed.GenerateMnemonic(100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate entropy")
}

func TestNormalizeMnemonic(t *testing.T) {
	assert.Equal(t, "a b c", seed.NormalizeMnemonic("  A\tb \n C "))
}
