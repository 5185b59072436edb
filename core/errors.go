package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorBadInput              = "MTOKEN_BAD_INPUT"
	ErrorTransportFailure      = "MTOKEN_TRANSPORT_FAILURE"
	ErrorMalformedResponse     = "MTOKEN_MALFORMED_RESPONSE"
	ErrorProtocolViolation     = "MTOKEN_PROTOCOL_VIOLATION"
	ErrorTokenProviderFailure  = "MTOKEN_TOKEN_PROVIDER_FAILURE"
	ErrorSignatureNotPermitted = "MTOKEN_SIGNATURE_NOT_PERMITTED"
	ErrorInternal              = "MTOKEN_INTERNAL_ERROR"
)

var (
	ErrNoErrorData   = errors.New("error retrieved but no error data")
	ErrNoDataObject  = errors.New("no data object retrieved")
	ErrUnknownStatus = errors.New("unknown response status")

	errEmptyHeaderKey       = errors.New("token header key is empty")
	errRejectReasonRequired = errors.New("reject reason is required")
	errRejectReasonTooLong  = errors.New("reject reason must be at most 32 characters")
)

const (
	metadataRawResponse = "raw_response"
	metadataStatusCode  = "status_code"
)

// ProtocolFault reports a response that broke the status/payload contract.
// The raw response text is kept in the metadata for diagnostics.
func ProtocolFault(reason error, raw []byte) *goerrors.Error {
	if reason == nil {
		reason = ErrUnknownStatus
	}
	return goerrors.Wrap(reason, goerrors.CategoryOperation, reason.Error()).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorProtocolViolation).
		WithMetadata(map[string]any{metadataRawResponse: string(raw)})
}

func malformedResponseError(source error, message string, raw []byte) *goerrors.Error {
	return goerrors.Wrap(source, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorMalformedResponse).
		WithMetadata(map[string]any{metadataRawResponse: string(raw)})
}

func tokenProviderError(source error, message string, tokenName string) *goerrors.Error {
	return goerrors.Wrap(source, goerrors.CategoryAuth, message).
		WithCode(http.StatusUnauthorized).
		WithTextCode(ErrorTokenProviderFailure).
		WithMetadata(map[string]any{"token_name": tokenName})
}

func badInputError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput)
}

func validationError(field string, message string) *goerrors.Error {
	return goerrors.NewValidation("core: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

func internalError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorInternal)
}

// withStatusCode annotates a fault with the HTTP status of the response that
// produced it.
func withStatusCode(err error, statusCode int) error {
	var rich *goerrors.Error
	if statusCode == 0 || !goerrors.As(err, &rich) {
		return err
	}
	rich.WithMetadata(map[string]any{metadataStatusCode: statusCode})
	return err
}

func IsProtocolFault(err error) bool {
	return hasTextCode(err, ErrorProtocolViolation)
}

// IsTransportFault reports network, body limit and parse failures.
func IsTransportFault(err error) bool {
	return hasTextCode(err, ErrorTransportFailure) || hasTextCode(err, ErrorMalformedResponse)
}

func IsTokenProviderFault(err error) bool {
	return hasTextCode(err, ErrorTokenProviderFailure)
}

// RawResponse returns the response text attached to a protocol or parse fault.
func RawResponse(err error) (string, bool) {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Metadata == nil {
		return "", false
	}
	raw, ok := rich.Metadata[metadataRawResponse].(string)
	return raw, ok
}

func hasTextCode(err error, code string) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

func serviceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "token") && strings.Contains(msg, "provider"):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryAuth, err.Error()).
			WithTextCode(ErrorTokenProviderFailure))
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "mismatch"):
		return ensureErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error()).
			WithTextCode(ErrorBadInput))
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = serviceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ErrorBadInput
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return ErrorTokenProviderFailure
	case goerrors.CategoryOperation:
		return ErrorProtocolViolation
	case goerrors.CategoryExternal:
		return ErrorTransportFailure
	default:
		return ErrorInternal
	}
}

func serviceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryOperation, goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
