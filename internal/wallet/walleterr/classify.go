package walleterr

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// RPCCodeTable maps JSON-RPC error codes to taxonomy codes. Codes missing from
// the table classify as CodeProviderError.
var RPCCodeTable = map[int]Code{
	-32000: CodeInvalidTransaction,
	-32001: CodeResourceNotFound,
	-32002: CodeResourceUnavailable,
	-32003: CodeTransactionRejected,
	-32005: CodeRateLimited,
}

// MessageTable maps lowercase message fragments to taxonomy codes. It is
// consulted before RPCCodeTable, in order.
var MessageTable = []struct {
	Fragment string
	Code     Code
	Message  string
}{
	{Fragment: "insufficient funds", Code: CodeInsufficientFunds, Message: "Insufficient funds for gas * price + value"},
	{Fragment: "nonce too low", Code: CodeNonceTooLow, Message: "Nonce too low"},
}

// RetriableCodes lists the codes for which another provider may succeed
var RetriableCodes = map[Code]bool{
	CodeRateLimited:         true,
	CodeResourceUnavailable: true,
	CodeNetworkTimeout:      true,
	CodeProviderError:       true,
}

// IsRetriable reports whether a failure with code may succeed on another provider
func IsRetriable(code Code) bool {
	return RetriableCodes[code]
}

// ShouldRetry reports whether err is a wallet error with a retriable code
func ShouldRetry(err error) bool {
	return IsRetriable(CodeOf(err))
}

// Classify maps any provider-side failure to a wallet error. Wallet errors are
// returned unchanged.
func Classify(provider string, err error) *Error {
	if err == nil {
		return nil
	}

	var walletErr *Error
	if errors.As(err, &walletErr) {
		return walletErr
	}

	if isTimeout(err) {
		return Wrap(err, CodeNetworkTimeout, "Request timed out")
	}

	message := err.Error()
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		message = rpcErr.Error()
	}
	if message == "" {
		message = "Unknown provider error"
	}

	lower := strings.ToLower(message)
	for _, entry := range MessageTable {
		if strings.Contains(lower, entry.Fragment) {
			return Wrap(err, entry.Code, entry.Message)
		}
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return Wrap(err, CodeRateLimited, "Request limit exceeded for "+provider)
	}

	if rpcErr != nil {
		return classifyRPCCode(provider, rpcErr.ErrorCode(), message, err)
	}

	return Wrap(err, CodeProviderError, message)
}

// ClassifyRPC classifies a bare JSON-RPC error object
func ClassifyRPC(provider string, code int, message string) *Error {
	return Classify(provider, &rpcError{code: code, message: message})
}

func classifyRPCCode(provider string, code int, message string, cause error) *Error {
	mapped, ok := RPCCodeTable[code]
	if !ok {
		return Wrap(cause, CodeProviderError, message)
	}

	switch mapped {
	case CodeInvalidTransaction:
		return Wrap(cause, mapped, "Invalid transaction: "+message)
	case CodeResourceNotFound:
		return Wrap(cause, mapped, "Resource not found")
	case CodeResourceUnavailable:
		return Wrap(cause, mapped, "Resource unavailable")
	case CodeTransactionRejected:
		return Wrap(cause, mapped, "Transaction rejected")
	case CodeRateLimited:
		return Wrap(cause, mapped, "Request limit exceeded for "+provider)
	default:
		return Wrap(cause, mapped, message)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

type rpcError struct {
	code    int
	message string
}

func (e *rpcError) Error() string  { return e.message }
func (e *rpcError) ErrorCode() int { return e.code }
