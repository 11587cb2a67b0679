package transaction

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Fields holds the raw content of a legacy EIP-155 transaction. An empty To
// means contract creation.
type Fields struct {
	Nonce    *big.Int
	GasPrice *big.Int
	GasLimit uint64
	To       string
	Value    *big.Int
	Data     []byte
	ChainID  int64
}

// UnsignedTransaction is an immutable legacy transaction. Accessors return
// copies so callers cannot modify it after Build.
type UnsignedTransaction struct {
	f Fields
}

// New wraps fields without validating them. Use Builder for caller input.
func New(f Fields) *UnsignedTransaction {
	return &UnsignedTransaction{f: f.clone()}
}

func (tx *UnsignedTransaction) Nonce() *big.Int    { return copyInt(tx.f.Nonce) }
func (tx *UnsignedTransaction) GasPrice() *big.Int { return copyInt(tx.f.GasPrice) }
func (tx *UnsignedTransaction) GasLimit() uint64   { return tx.f.GasLimit }
func (tx *UnsignedTransaction) To() string         { return tx.f.To }
func (tx *UnsignedTransaction) Value() *big.Int    { return copyInt(tx.f.Value) }
func (tx *UnsignedTransaction) ChainID() int64     { return tx.f.ChainID }

// Data returns a copy of the call data
func (tx *UnsignedTransaction) Data() []byte {
	return append([]byte{}, tx.f.Data...)
}

// DataHex returns the call data as a 0x prefixed hex string, "0x" when empty
func (tx *UnsignedTransaction) DataHex() string {
	return hexutil.Encode(tx.f.Data)
}

// IsContractCreation reports whether the transaction has no recipient
func (tx *UnsignedTransaction) IsContractCreation() bool {
	return tx.f.To == ""
}

// Fields returns a deep copy of the transaction content
func (tx *UnsignedTransaction) Fields() Fields {
	return tx.f.clone()
}

// JSON is the wire form of an unsigned transaction. Quantities are decimal
// strings so no precision is lost in transit.
type JSON struct {
	Nonce    string `json:"nonce"`
	GasPrice string `json:"gasPrice"`
	GasLimit string `json:"gasLimit"`
	To       string `json:"to"`
	Value    string `json:"value"`
	Data     string `json:"data"`
	ChainID  string `json:"chainId"`
}

// ToJSON converts the transaction to its wire form
func (tx *UnsignedTransaction) ToJSON() JSON {
	return JSON{
		Nonce:    intString(tx.f.Nonce),
		GasPrice: intString(tx.f.GasPrice),
		GasLimit: strconv.FormatUint(tx.f.GasLimit, 10),
		To:       tx.f.To,
		Value:    intString(tx.f.Value),
		Data:     tx.DataHex(),
		ChainID:  strconv.FormatInt(tx.f.ChainID, 10),
	}
}

func (tx *UnsignedTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(tx.ToJSON())
}

func (f Fields) clone() Fields {
	return Fields{
		Nonce:    copyInt(f.Nonce),
		GasPrice: copyInt(f.GasPrice),
		GasLimit: f.GasLimit,
		To:       f.To,
		Value:    copyInt(f.Value),
		Data:     append([]byte{}, f.Data...),
		ChainID:  f.ChainID,
	}
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
