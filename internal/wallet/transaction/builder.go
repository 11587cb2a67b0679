// Package transaction accumulates validated input into immutable legacy
// transactions.
package transaction

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github/chapool/evm-wallet/internal/wallet/validate"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
)

const FieldData = "data"

// requiredFields lists the fields Build checks, in reporting order
var requiredFields = []string{
	validate.FieldTo,
	validate.FieldValue,
	validate.FieldNonce,
	validate.FieldGasPrice,
	validate.FieldGasLimit,
	validate.FieldChainID,
}

// Params is the flat string form of a transaction as received from callers.
// Numbers are decimal strings, To and Data are hex. ValueUnit is optional;
// when empty Value goes through the legacy ETH/Wei heuristic.
type Params struct {
	To        string `json:"to"`
	Value     string `json:"value"`
	ValueUnit string `json:"valueUnit,omitempty"`
	Nonce     string `json:"nonce"`
	GasPrice  string `json:"gasPrice"`
	GasLimit  string `json:"gasLimit"`
	ChainID   string `json:"chainId"`
	Data      string `json:"data,omitempty"`
}

// Builder accumulates transaction fields. Setters validate immediately and
// keep the first failure, which Build reports.
type Builder struct {
	fields   Fields
	set      map[string]bool
	err      error
	warnings []string
}

func NewBuilder() *Builder {
	return &Builder{set: make(map[string]bool, len(requiredFields))}
}

// SetTo sets the recipient. The empty string creates a contract.
func (b *Builder) SetTo(to string) *Builder {
	if to == "" {
		return b.assign(validate.FieldTo, func() { b.fields.To = "" })
	}

	checksummed, err := validate.ValidateAddress(to)
	if err != nil {
		return b.fail(err)
	}
	return b.assign(validate.FieldTo, func() { b.fields.To = checksummed })
}

// SetValue sets the value using the legacy heuristic: decimals and whole
// numbers below 10^15 are ETH, anything else is Wei.
func (b *Builder) SetValue(value string) *Builder {
	wei, err := validate.ValidateWeiAmount(value)
	if err != nil {
		return b.fail(err)
	}
	return b.assign(validate.FieldValue, func() { b.fields.Value = wei })
}

// SetValueWithUnit sets the value in an explicit unit (wei, gwei, ether).
// An empty unit falls back to SetValue.
func (b *Builder) SetValueWithUnit(value string, unit string) *Builder {
	wei, err := validate.ToWei(value, unit)
	if err != nil {
		return b.fail(err)
	}
	return b.assign(validate.FieldValue, func() { b.fields.Value = wei })
}

// SetWei sets an already converted base unit value
func (b *Builder) SetWei(wei *big.Int) *Builder {
	if wei == nil || wei.Sign() < 0 {
		return b.fail(walleterr.NewField(walleterr.CodeNegativeValue, "Value cannot be negative", validate.FieldValue))
	}
	return b.assign(validate.FieldValue, func() { b.fields.Value = new(big.Int).Set(wei) })
}

func (b *Builder) SetNonce(nonce string) *Builder {
	n, err := validate.ValidateNonce(nonce)
	if err != nil {
		return b.fail(err)
	}
	return b.assign(validate.FieldNonce, func() { b.fields.Nonce = n })
}

// SetGasPrice sets the gas price. Prices above 1000 Gwei are accepted but
// recorded in Warnings.
func (b *Builder) SetGasPrice(gasPrice string) *Builder {
	price, err := validate.ValidateGasPrice(gasPrice)
	if err != nil {
		return b.fail(err)
	}
	if validate.IsHighGasPrice(price) {
		b.warnings = append(b.warnings, fmt.Sprintf("Gas price %s wei is unusually high", price))
	}
	return b.assign(validate.FieldGasPrice, func() { b.fields.GasPrice = price })
}

func (b *Builder) SetGasLimit(gasLimit string) *Builder {
	limit, err := validate.ValidateGasLimit(gasLimit)
	if err != nil {
		return b.fail(err)
	}
	return b.assign(validate.FieldGasLimit, func() { b.fields.GasLimit = limit })
}

func (b *Builder) SetChainID(chainID string) *Builder {
	id, err := validate.ValidateChainID(chainID)
	if err != nil {
		return b.fail(err)
	}
	return b.assign(validate.FieldChainID, func() { b.fields.ChainID = id })
}

// SetData sets the call data, adding the 0x prefix when missing
func (b *Builder) SetData(data string) *Builder {
	if !strings.HasPrefix(data, "0x") && !strings.HasPrefix(data, "0X") {
		data = "0x" + data
	}

	decoded, err := decodeData(data)
	if err != nil {
		return b.fail(walleterr.Wrap(err, walleterr.CodeInvalidTransaction, "Invalid transaction data"))
	}
	b.fields.Data = decoded
	return b
}

// Warnings returns the non-fatal findings collected by the setters
func (b *Builder) Warnings() []string {
	return append([]string{}, b.warnings...)
}

// Err returns the first setter failure, if any
func (b *Builder) Err() error {
	return b.err
}

// Build returns the transaction, the first setter failure, or a
// MISSING_FIELDS error listing every field that was never set
func (b *Builder) Build() (*UnsignedTransaction, error) {
	if b.err != nil {
		return nil, b.err
	}

	var missing []string
	for _, field := range requiredFields {
		if !b.set[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, walleterr.New(walleterr.CodeMissingFields,
			fmt.Sprintf("Missing required transaction fields: %s", strings.Join(missing, ", ")))
	}

	return New(b.fields), nil
}

// FromParams builds a transaction from flat caller input in one call
func FromParams(params Params) (*UnsignedTransaction, error) {
	return params.Builder().Build()
}

// Builder returns a builder populated from params, for callers that also
// want Warnings
func (p Params) Builder() *Builder {
	b := NewBuilder().
		SetTo(p.To).
		SetValueWithUnit(p.Value, p.ValueUnit).
		SetNonce(p.Nonce).
		SetGasPrice(p.GasPrice).
		SetGasLimit(p.GasLimit).
		SetChainID(p.ChainID)

	if p.Data != "" {
		b.SetData(p.Data)
	}
	return b
}

func (b *Builder) assign(field string, apply func()) *Builder {
	apply()
	b.set[field] = true
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func decodeData(data string) ([]byte, error) {
	body := data[2:]
	if body == "" {
		return []byte{}, nil
	}
	return hexutil.Decode("0x" + body)
}
