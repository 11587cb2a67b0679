// Package httperrors maps wallet failures onto HTTP responses.
package httperrors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/evm-wallet/internal/util"
	"github/chapool/evm-wallet/internal/wallet/walleterr"
	"golang.org/x/text/language"
)

// Payload is the JSON body of every failed request
type Payload struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	// Display is the user facing rendering of the failure, when known
	Display string `json:"display,omitempty"`
}

// HTTPError is returned by handlers and rendered by ErrorHandler
type HTTPError struct {
	Status int
	Body   Payload

	Internal error
}

func NewHTTPError(status int, code walleterr.Code, message string) *HTTPError {
	return &HTTPError{
		Status: status,
		Body:   Payload{Error: message, Code: string(code)},
	}
}

// NewFromError wraps err, picking the status from its wallet code
func NewFromError(err error) *HTTPError {
	var walletErr *walleterr.Error
	if !errors.As(err, &walletErr) {
		return &HTTPError{
			Status:   http.StatusInternalServerError,
			Body:     Payload{Error: http.StatusText(http.StatusInternalServerError)},
			Internal: err,
		}
	}

	return &HTTPError{
		Status: StatusOf(walletErr.Code),
		Body: Payload{
			Error: walletErr.Message,
			Code:  string(walletErr.Code),
			Field: walletErr.Field,
		},
		Internal: err,
	}
}

func (e *HTTPError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("HTTPError %d (%s): %s - %v", e.Status, e.Body.Code, e.Body.Error, e.Internal)
	}
	return fmt.Sprintf("HTTPError %d (%s): %s", e.Status, e.Body.Code, e.Body.Error)
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

var upstreamCodes = map[walleterr.Code]bool{
	walleterr.CodeInsufficientFunds:   true,
	walleterr.CodeNonceTooLow:         true,
	walleterr.CodeInvalidTransaction:  true,
	walleterr.CodeResourceNotFound:    true,
	walleterr.CodeResourceUnavailable: true,
	walleterr.CodeTransactionRejected: true,
	walleterr.CodeRateLimited:         true,
	walleterr.CodeNetworkTimeout:      true,
	walleterr.CodeProviderError:       true,
	walleterr.CodeNoProviders:         true,
	walleterr.CodeAllProvidersFailed:  true,
}

var internalCodes = map[walleterr.Code]bool{
	walleterr.CodeKeyInitializationFailed: true,
	walleterr.CodeDerivationFailed:        true,
	walleterr.CodeSigningFailed:           true,
}

// StatusOf returns 502 for provider side codes, 500 for internal signing
// failures and 400 for everything caused by the request
func StatusOf(code walleterr.Code) int {
	switch {
	case upstreamCodes[code]:
		return http.StatusBadGateway
	case internalCodes[code]:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Formatter renders a failure for the language of the request
type Formatter interface {
	FormatError(err error, lang language.Tag) string
	ParseAcceptLanguage(header string) language.Tag
}

// NewErrorHandler returns the echo error handler. formatter may be nil.
func NewErrorHandler(formatter Formatter) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		log := util.LogFromEchoContext(c)

		var (
			httpErr *HTTPError
			echoErr *echo.HTTPError
		)
		switch {
		case errors.As(err, &httpErr):
		case errors.As(err, &echoErr):
			httpErr = &HTTPError{
				Status:   echoErr.Code,
				Body:     Payload{Error: fmt.Sprint(echoErr.Message)},
				Internal: echoErr.Internal,
			}
		default:
			httpErr = NewFromError(err)
		}

		if formatter != nil && httpErr.Body.Code != "" {
			lang := formatter.ParseAcceptLanguage(c.Request().Header.Get("Accept-Language"))
			httpErr.Body.Display = formatter.FormatError(errOrSelf(httpErr), lang)
		}

		if httpErr.Status >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", httpErr.Status).Str("code", httpErr.Body.Code).Msg("Request failed")
		} else {
			log.Debug().Err(err).Int("status", httpErr.Status).Str("code", httpErr.Body.Code).Msg("Request rejected")
		}

		httpErr.Body.Success = false
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.Status)
		} else {
			err = c.JSON(httpErr.Status, httpErr.Body)
		}
		if err != nil {
			log.Warn().Err(err).Msg("Failed to write error response")
		}
	}
}

func errOrSelf(e *HTTPError) error {
	if e.Internal != nil {
		return e.Internal
	}
	return walleterr.New(walleterr.Code(e.Body.Code), e.Body.Error)
}
