package wallet

import (
	"github/chapool/evm-wallet/internal/wallet/signer"
	"github/chapool/evm-wallet/internal/wallet/transaction"
)

// DemoMnemonic is the well known development mnemonic. Never fund it.
const DemoMnemonic = "test test test test test test test test test test test junk"

// Request is the one-call input: an optional mnemonic, the signing account
// and the transaction fields as strings
type Request struct {
	Mnemonic     string `json:"mnemonic,omitempty"`
	Passphrase   string `json:"passphrase,omitempty"`
	AccountIndex uint32 `json:"accountIndex,omitempty"`
	Broadcast    bool   `json:"broadcast,omitempty"`

	transaction.Params
}

// Result is the one-call output. TxHash is set only when broadcast.
type Result struct {
	Signed   *signer.SignedTransaction `json:"signed"`
	TxHash   string                    `json:"txHash,omitempty"`
	Warnings []string                  `json:"warnings,omitempty"`
}

// AccountInfo is the public part of a derived account
type AccountInfo struct {
	Address        string `json:"address"`
	DerivationPath string `json:"derivationPath"`
	Index          uint32 `json:"index"`
}
