package walleterr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code is a taxonomy key identifying a wallet failure
type Code string

const (
	// Mnemonic and key derivation
	CodeInvalidMnemonicLength   Code = "INVALID_MNEMONIC_LENGTH"
	CodeInvalidMnemonicWords    Code = "INVALID_MNEMONIC_WORDS"
	CodeInvalidMnemonicChecksum Code = "INVALID_MNEMONIC_CHECKSUM"
	CodeKeyInitializationFailed Code = "KEY_INITIALIZATION_FAILED"
	CodeNotInitialized          Code = "NOT_INITIALIZED"
	CodeWalletNotInitialized    Code = "WALLET_NOT_INITIALIZED"
	CodeDerivationFailed        Code = "DERIVATION_FAILED"

	// Input validation
	CodeInvalidAddress         Code = "INVALID_ADDRESS"
	CodeInvalidAddressChecksum Code = "INVALID_ADDRESS_CHECKSUM"
	CodeNegativeValue          Code = "NEGATIVE_VALUE"
	CodeInvalidValue           Code = "INVALID_VALUE"
	CodeInvalidUnit            Code = "INVALID_UNIT"
	CodeGasLimitTooLow         Code = "GAS_LIMIT_TOO_LOW"
	CodeGasLimitTooHigh        Code = "GAS_LIMIT_TOO_HIGH"
	CodeInvalidGasLimit        Code = "INVALID_GAS_LIMIT"
	CodeNegativeGasPrice       Code = "NEGATIVE_GAS_PRICE"
	CodeInvalidGasPrice        Code = "INVALID_GAS_PRICE"
	CodeNegativeNonce          Code = "NEGATIVE_NONCE"
	CodeInvalidNonce           Code = "INVALID_NONCE"
	CodeInvalidChainID         Code = "INVALID_CHAIN_ID"
	CodeMissingFields          Code = "MISSING_FIELDS"

	// Signing
	CodeInvalidPrivateKey Code = "INVALID_PRIVATE_KEY"
	CodeSigningFailed     Code = "SIGNING_FAILED"

	// Provider side
	CodeInsufficientFunds   Code = "INSUFFICIENT_FUNDS"
	CodeNonceTooLow         Code = "NONCE_TOO_LOW"
	CodeInvalidTransaction  Code = "INVALID_TRANSACTION"
	CodeResourceNotFound    Code = "RESOURCE_NOT_FOUND"
	CodeResourceUnavailable Code = "RESOURCE_UNAVAILABLE"
	CodeTransactionRejected Code = "TRANSACTION_REJECTED"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeNetworkTimeout      Code = "NETWORK_TIMEOUT"
	CodeProviderError       Code = "PROVIDER_ERROR"
	CodeNoProviders         Code = "NO_PROVIDERS"
	CodeAllProvidersFailed  Code = "ALL_PROVIDERS_FAILED"
)

// Error is the typed failure returned by every wallet component
type Error struct {
	Code    Code
	Message string
	// Field names the offending input, empty when the error is not field specific
	Field string

	cause error
}

// New creates an Error without a field
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewField creates an Error tagged with the offending input field
func NewField(code Code, message string, field string) *Error {
	return &Error{Code: code, Message: message, Field: field}
}

// Wrap creates an Error that keeps err as its cause
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause implements the github.com/pkg/errors causer interface
func (e *Error) Cause() error {
	return e.cause
}

// Is reports whether target is a wallet error with the same code
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Format prints the code alongside the message with %+v
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s [%s]", e.Message, e.Code)
			if e.Field != "" {
				fmt.Fprintf(s, " field=%s", e.Field)
			}
			if e.cause != nil {
				fmt.Fprintf(s, ": %+v", e.cause)
			}
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Message)
	case 'q':
		fmt.Fprintf(s, "%q", e.Message)
	}
}

// CodeOf extracts the taxonomy code from err, returning "" for non-wallet errors
func CodeOf(err error) Code {
	var walletErr *Error
	if errors.As(err, &walletErr) {
		return walletErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
