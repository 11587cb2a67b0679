package validate

import (
	"math/big"
	"strings"

	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const FieldValue = "value"

// Unit is a denomination of the native asset
type Unit string

const (
	UnitWei   Unit = "wei"
	UnitGwei  Unit = "gwei"
	UnitEther Unit = "ether"

	GweiDecimals  = 9
	EtherDecimals = 18
)

// unitDecimals maps each unit to its power of ten in Wei
var unitDecimals = map[Unit]int{
	UnitWei:   0,
	UnitGwei:  GweiDecimals,
	UnitEther: EtherDecimals,
}

// EtherHeuristicThreshold is 10^15 Wei. Whole numbers below it are read as Ether
// by ValidateWeiAmount.
var EtherHeuristicThreshold = pow10(15)

// ParseUnit reads a unit name ("wei", "gwei", "eth", "ether"), case insensitive
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wei":
		return UnitWei, nil
	case "gwei":
		return UnitGwei, nil
	case "eth", "ether":
		return UnitEther, nil
	default:
		return "", walleterr.NewField(walleterr.CodeInvalidUnit, "Unknown unit: "+s, FieldValue)
	}
}

// Decimals returns the number of decimal places between the unit and Wei
func (u Unit) Decimals() int {
	return unitDecimals[u]
}

// ValidateWeiAmount converts an amount to Wei. Values with a decimal point, and
// whole numbers below EtherHeuristicThreshold, are treated as Ether; any other
// whole number is taken as Wei. Prefer ParseAmount with an explicit unit.
func ValidateWeiAmount(value string) (*big.Int, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return nil, invalidValue()
	}
	if strings.HasPrefix(clean, "-") {
		return nil, negativeValue()
	}

	if strings.Contains(clean, ".") {
		wei, ok := decimalToBaseUnits(clean, EtherDecimals, true)
		if !ok {
			return nil, invalidValue()
		}
		return wei, nil
	}

	num, ok := parseInteger(clean)
	if !ok {
		return nil, invalidValue()
	}
	if num.Cmp(EtherHeuristicThreshold) < 0 {
		return num.Mul(num, pow10(EtherDecimals)), nil
	}
	return num, nil
}

// ParseAmount converts a decimal amount denominated in unit to Wei. Fractions
// finer than one Wei are rejected instead of truncated.
func ParseAmount(value string, unit Unit) (*big.Int, error) {
	decimals, ok := unitDecimals[unit]
	if !ok {
		return nil, walleterr.NewField(walleterr.CodeInvalidUnit, "Unknown unit: "+string(unit), FieldValue)
	}

	clean := strings.TrimSpace(value)
	if clean == "" {
		return nil, invalidValue()
	}
	if strings.HasPrefix(clean, "-") {
		return nil, negativeValue()
	}

	if !strings.Contains(clean, ".") {
		num, ok := parseInteger(clean)
		if !ok {
			return nil, invalidValue()
		}
		return num.Mul(num, pow10(decimals)), nil
	}

	wei, ok := decimalToBaseUnits(clean, decimals, false)
	if !ok {
		return nil, invalidValue()
	}
	return wei, nil
}

// ToWei is ValidateWeiAmount when unit is empty and ParseAmount otherwise
func ToWei(value string, unit string) (*big.Int, error) {
	if strings.TrimSpace(unit) == "" {
		return ValidateWeiAmount(value)
	}
	u, err := ParseUnit(unit)
	if err != nil {
		return nil, err
	}
	return ParseAmount(value, u)
}

// FormatUnits renders a base-unit amount as a decimal string with precision
// fractional digits, rounding half away from zero.
func FormatUnits(amount *big.Int, decimals int, precision int) string {
	if amount == nil {
		amount = new(big.Int)
	}
	return new(big.Rat).SetFrac(amount, pow10(decimals)).FloatString(precision)
}

// decimalToBaseUnits converts "whole.fraction" into an integer scaled by
// 10^decimals. Excess fractional digits are dropped when truncate is set and
// rejected otherwise.
func decimalToBaseUnits(value string, decimals int, truncate bool) (*big.Int, bool) {
	parts := strings.Split(value, ".")
	if len(parts) > 2 {
		return nil, false
	}

	whole, fraction := parts[0], ""
	if len(parts) == 2 {
		fraction = parts[1]
	}
	if whole == "" && fraction == "" {
		return nil, false
	}
	if !isDigits(whole) || !isDigits(fraction) {
		return nil, false
	}
	if whole == "" {
		whole = "0"
	}

	if len(fraction) > decimals {
		if !truncate && strings.Trim(fraction[decimals:], "0") != "" {
			return nil, false
		}
		fraction = fraction[:decimals]
	}
	fraction += strings.Repeat("0", decimals-len(fraction))

	result, ok := new(big.Int).SetString(whole+fraction, 10)
	return result, ok
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func invalidValue() error {
	return walleterr.NewField(walleterr.CodeInvalidValue, "Invalid Wei amount", FieldValue)
}

func negativeValue() error {
	return walleterr.NewField(walleterr.CodeNegativeValue, "Value cannot be negative", FieldValue)
}
