package i18n_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/evm-wallet/internal/i18n"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
	"golang.org/x/text/language"
)

func newService(t *testing.T) *i18n.Service {
	t.Helper()
	s, err := i18n.New(language.English)
	require.NoError(t, err)
	return s
}

func TestFormatErrorKnownCode(t *testing.T) {
	s := newService(t)

	err := walleterr.New(walleterr.CodeInvalidMnemonicLength, "Mnemonic must be 12, 15, 18, 21, or 24 words")
	assert.Equal(t,
		"Incorrect Word Count: Recovery phrases must contain exactly 12, 15, 18, 21, or 24 words.\nPlease check your backup and enter the complete recovery phrase.",
		s.FormatError(err, language.English))

	wrapped := walleterr.Wrap(errors.New("dial tcp"), walleterr.CodeAllProvidersFailed, "All providers failed to broadcast transaction")
	assert.Equal(t,
		"Connection Failed: Unable to connect to any Ethereum node.\nPlease try again later or check network status.",
		s.FormatError(wrapped, language.English))
}

func TestFormatErrorUnknownCode(t *testing.T) {
	s := newService(t)

	assert.Equal(t, "Error: boom", s.FormatError(errors.New("boom"), language.English))
	assert.Equal(t, "Error: Invalid chain ID",
		s.FormatError(walleterr.New(walleterr.CodeInvalidChainID, "Invalid chain ID"), language.English))
	assert.Equal(t, "", s.FormatError(nil, language.English))
}

func TestTemplate(t *testing.T) {
	s := newService(t)

	tmpl, ok := s.Template(walleterr.CodeNetworkTimeout, language.English)
	require.True(t, ok)
	assert.Equal(t, "Network Timeout", tmpl.Title)
	assert.Equal(t, "The request timed out.", tmpl.Message)
	assert.Equal(t, "Check your internet connection and try again.", tmpl.Action)

	_, ok = s.Template(walleterr.CodeSigningFailed, language.English)
	assert.False(t, ok)
}

func TestTranslateFallsBackToDefaultLanguage(t *testing.T) {
	s := newService(t)

	assert.Equal(t, "Invalid Address", s.Translate("INVALID_ADDRESS.title", language.German))
	assert.Equal(t, "missing.key", s.Translate("missing.key", language.English))
}

func TestNewFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"msg/active.en.toml": {Data: []byte("[generic]\nerror = \"Error: {{.Message}}\"\n")},
		"msg/active.de.toml": {Data: []byte("[generic]\nerror = \"Fehler: {{.Message}}\"\n")},
	}

	s, err := i18n.NewFromFS(fsys, "msg", language.English)
	require.NoError(t, err)

	assert.Equal(t, "Fehler: kaputt", s.FormatError(errors.New("kaputt"), language.German))
	assert.Equal(t, language.German, s.ParseAcceptLanguage("de-DE,de;q=0.9,en;q=0.5"))
	assert.Equal(t, language.English, s.ParseAcceptLanguage("fr"))
	assert.Equal(t, language.English, s.ParseAcceptLanguage(""))
}
