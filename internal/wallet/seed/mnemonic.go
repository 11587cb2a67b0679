package seed

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

var (
	wordSetOnce sync.Once
	wordSet     map[string]struct{}
)

// ValidWordCounts lists the accepted mnemonic lengths
var ValidWordCounts = []int{12, 15, 18, 21, 24}

// NormalizeMnemonic lowercases the phrase and collapses whitespace
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// ValidateMnemonic checks word count, wordlist membership and the BIP39
// checksum, in that order
func ValidateMnemonic(mnemonic string) error {
	words := strings.Fields(strings.ToLower(mnemonic))

	if !validWordCount(len(words)) {
		return walleterr.New(walleterr.CodeInvalidMnemonicLength, "Mnemonic must be 12, 15, 18, 21, or 24 words")
	}

	if invalid := unknownWords(words); len(invalid) > 0 {
		return walleterr.New(walleterr.CodeInvalidMnemonicWords,
			fmt.Sprintf("Invalid words found: %s", strings.Join(invalid, ", ")))
	}

	if !bip39.IsMnemonicValid(strings.Join(words, " ")) {
		return walleterr.New(walleterr.CodeInvalidMnemonicChecksum, "Invalid mnemonic checksum")
	}

	return nil
}

// GenerateMnemonic creates a new mnemonic with the given entropy size in
// bits (128 for 12 words up to 256 for 24 words)
func GenerateMnemonic(bitSize int) (string, error) {
	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", errors.Wrap(err, "generate entropy")
	}
	defer zero(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "generate mnemonic")
	}
	return mnemonic, nil
}

func validWordCount(n int) bool {
	for _, count := range ValidWordCounts {
		if n == count {
			return true
		}
	}
	return false
}

func unknownWords(words []string) []string {
	wordSetOnce.Do(func() {
		list := bip39.GetWordList()
		wordSet = make(map[string]struct{}, len(list))
		for _, w := range list {
			wordSet[w] = struct{}{}
		}
	})

	var invalid []string
	for _, w := range words {
		if _, ok := wordSet[w]; !ok {
			invalid = append(invalid, w)
		}
	}
	return invalid
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
