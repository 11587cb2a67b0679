// Package validate normalizes untyped string input into canonical typed values.
// Every function returns a *walleterr.Error tagged with the offending field.
package validate

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const FieldTo = "to"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsHexAddress reports whether s is a 0x-prefixed 40 hex character address
func IsHexAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// ChecksumAddress returns the EIP-55 mixed-case form of a well-formed address.
// The caller must ensure IsHexAddress(address).
func ChecksumAddress(address string) string {
	return common.HexToAddress(strings.ToLower(address)).Hex()
}

// ValidateAddress checks the format of an address and, unless it is all
// lowercase, its EIP-55 checksum. The checksummed form is always returned.
func ValidateAddress(address string) (string, error) {
	if !IsHexAddress(address) {
		return "", walleterr.NewField(walleterr.CodeInvalidAddress, "Invalid Ethereum address format", FieldTo)
	}

	checksummed := ChecksumAddress(address)
	if address != strings.ToLower(address) && address != checksummed {
		return "", walleterr.NewField(walleterr.CodeInvalidAddressChecksum, "Invalid address checksum", FieldTo)
	}

	return checksummed, nil
}
