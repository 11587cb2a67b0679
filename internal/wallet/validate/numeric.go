package validate

import (
	"math/big"
	"strings"

	"github.com/rs/zerolog/log"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const (
	FieldGasLimit = "gasLimit"
	FieldGasPrice = "gasPrice"
	FieldNonce    = "nonce"
	FieldChainID  = "chainId"

	MinGasLimit uint64 = 21000
	MaxGasLimit uint64 = 30000000
)

// HighGasPriceThreshold is 1000 Gwei; prices above it are accepted with a warning
var HighGasPriceThreshold = new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e9))

// parseInteger parses a decimal or 0x-prefixed hexadecimal integer with an
// optional leading minus sign.
func parseInteger(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	if s == "" || strings.ContainsAny(s, "+-_ ") {
		return nil, false
	}

	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, false
	}
	if negative {
		n.Neg(n)
	}
	return n, true
}

// ValidateGasLimit accepts an integer in [MinGasLimit, MaxGasLimit]
func ValidateGasLimit(gasLimit string) (uint64, error) {
	gas, ok := parseInteger(gasLimit)
	if !ok || gas.Sign() < 0 {
		return 0, walleterr.NewField(walleterr.CodeInvalidGasLimit, "Invalid gas limit", FieldGasLimit)
	}
	if gas.Cmp(new(big.Int).SetUint64(MinGasLimit)) < 0 {
		return 0, walleterr.NewField(walleterr.CodeGasLimitTooLow, "Gas limit too low (minimum 21000)", FieldGasLimit)
	}
	if gas.Cmp(new(big.Int).SetUint64(MaxGasLimit)) > 0 {
		return 0, walleterr.NewField(walleterr.CodeGasLimitTooHigh, "Gas limit too high (maximum 30000000)", FieldGasLimit)
	}
	return gas.Uint64(), nil
}

// ValidateGasPrice accepts a non-negative integer amount of Wei. Prices above
// HighGasPriceThreshold are logged but not rejected.
func ValidateGasPrice(gasPrice string) (*big.Int, error) {
	price, ok := parseInteger(gasPrice)
	if !ok {
		return nil, walleterr.NewField(walleterr.CodeInvalidGasPrice, "Invalid gas price", FieldGasPrice)
	}
	if price.Sign() < 0 {
		return nil, walleterr.NewField(walleterr.CodeNegativeGasPrice, "Gas price cannot be negative", FieldGasPrice)
	}

	if IsHighGasPrice(price) {
		log.Warn().Str("gas_price", price.String()).Msg("Gas price exceeds 1000 Gwei")
	}

	return price, nil
}

// IsHighGasPrice reports whether price exceeds HighGasPriceThreshold
func IsHighGasPrice(price *big.Int) bool {
	return price != nil && price.Cmp(HighGasPriceThreshold) > 0
}

// ValidateNonce accepts a non-negative integer
func ValidateNonce(nonce string) (*big.Int, error) {
	n, ok := parseInteger(nonce)
	if !ok {
		return nil, walleterr.NewField(walleterr.CodeInvalidNonce, "Invalid nonce", FieldNonce)
	}
	if n.Sign() < 0 {
		return nil, walleterr.NewField(walleterr.CodeNegativeNonce, "Nonce cannot be negative", FieldNonce)
	}
	return n, nil
}

// ValidateChainID accepts a positive integer that fits in an int64
func ValidateChainID(chainID string) (int64, error) {
	id, ok := parseInteger(chainID)
	if !ok || id.Sign() <= 0 || !id.IsInt64() {
		return 0, walleterr.NewField(walleterr.CodeInvalidChainID, "Invalid chain ID", FieldChainID)
	}
	return id.Int64(), nil
}
