package core

import "time"

type ResponseStatus string

const (
	StatusOK    ResponseStatus = "OK"
	StatusError ResponseStatus = "ERROR"
)

// Envelope is the classified server response. For StatusError only
// ResponseError is set. For StatusOK ResponseError is nil and ResponseObject
// is nil only when the caller did not require a payload.
type Envelope[T any] struct {
	Status         ResponseStatus
	ResponseObject *T
	ResponseError  *ResponseError
}

func (e Envelope[T]) OK() bool {
	return e.Status == StatusOK
}

// Payload returns the response object, or the zero value when absent.
func (e Envelope[T]) Payload() (T, bool) {
	if e.ResponseObject == nil {
		var zero T
		return zero, false
	}
	return *e.ResponseObject, true
}

// Empty is the payload type of operations that only report status.
type Empty struct{}

type ResponseError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorCode identifies a server side failure. Values outside the known set
// are kept as-is.
type ErrorCode string

const (
	ErrorCodeGeneric                  ErrorCode = "ERROR_GENERIC"
	ErrorCodeAuthenticationFailure    ErrorCode = "POWERAUTH_AUTH_FAIL"
	ErrorCodeInvalidRequest           ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidActivation        ErrorCode = "INVALID_ACTIVATION"
	ErrorCodeInvalidApplication       ErrorCode = "INVALID_APPLICATION"
	ErrorCodeInvalidOperation         ErrorCode = "INVALID_OPERATION"
	ErrorCodeActivationError          ErrorCode = "ERR_ACTIVATION"
	ErrorCodeAuthenticationError      ErrorCode = "ERR_AUTHENTICATION"
	ErrorCodeSecureVaultError         ErrorCode = "ERR_SECURE_VAULT"
	ErrorCodeEncryptionError          ErrorCode = "ERR_ENCRYPTION"
	ErrorCodePushRegistrationFailed   ErrorCode = "PUSH_REGISTRATION_FAILED"
	ErrorCodeOperationAlreadyFinished ErrorCode = "OPERATION_ALREADY_FINISHED"
	ErrorCodeOperationAlreadyFailed   ErrorCode = "OPERATION_ALREADY_FAILED"
	ErrorCodeOperationAlreadyCanceled ErrorCode = "OPERATION_ALREADY_CANCELED"
	ErrorCodeOperationExpired         ErrorCode = "OPERATION_EXPIRED"
	ErrorCodeOperationFailed          ErrorCode = "OPERATION_FAILED"
)

var knownErrorCodes = map[ErrorCode]struct{}{
	ErrorCodeGeneric:                  {},
	ErrorCodeAuthenticationFailure:    {},
	ErrorCodeInvalidRequest:           {},
	ErrorCodeInvalidActivation:        {},
	ErrorCodeInvalidApplication:       {},
	ErrorCodeInvalidOperation:         {},
	ErrorCodeActivationError:          {},
	ErrorCodeAuthenticationError:      {},
	ErrorCodeSecureVaultError:         {},
	ErrorCodeEncryptionError:          {},
	ErrorCodePushRegistrationFailed:   {},
	ErrorCodeOperationAlreadyFinished: {},
	ErrorCodeOperationAlreadyFailed:   {},
	ErrorCodeOperationAlreadyCanceled: {},
	ErrorCodeOperationExpired:         {},
	ErrorCodeOperationFailed:          {},
}

func (c ErrorCode) Known() bool {
	_, ok := knownErrorCodes[c]
	return ok
}

// UserOperation is a pending server side action (login, payment, ...) the
// user can approve or reject.
type UserOperation struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Data                 string            `json:"data"`
	Status               string            `json:"status,omitempty"`
	StatusReason         string            `json:"statusReason,omitempty"`
	OperationCreated     time.Time         `json:"operationCreated"`
	OperationExpires     time.Time         `json:"operationExpires"`
	FormData             OperationFormData `json:"formData"`
	AllowedSignatureType AllowedSignature  `json:"allowedSignatureType"`
}

// Expired compares against the local clock. The server clock is
// authoritative; do not hide operations based on this.
func (o UserOperation) Expired(now time.Time) bool {
	return !o.OperationExpires.IsZero() && now.After(o.OperationExpires)
}

type OperationFormData struct {
	Title       string       `json:"title"`
	Message     string       `json:"message"`
	ResultTexts *ResultTexts `json:"resultTexts,omitempty"`
	Attributes  Attributes   `json:"attributes"`
}

type ResultTexts struct {
	Success *string `json:"success,omitempty"`
	Failure *string `json:"failure,omitempty"`
	Reject  *string `json:"reject,omitempty"`
}

type SignatureType string

const (
	SignatureType1FA SignatureType = "1FA"
	SignatureType2FA SignatureType = "2FA"
)

type AllowedSignature struct {
	Type     SignatureType     `json:"type"`
	Variants []SignatureFactor `json:"variants"`
}

// Permits reports whether the factor may approve the operation. An empty
// variant list accepts any factor allowed by the signature type: a 2FA
// operation is never approved with possession alone.
func (s AllowedSignature) Permits(factor SignatureFactor) bool {
	if len(s.Variants) == 0 {
		return s.Type != SignatureType2FA || factor != FactorPossession
	}
	for _, variant := range s.Variants {
		if variant == factor {
			return true
		}
	}
	return false
}

type RejectReason string

const (
	RejectReasonUnknown             RejectReason = "UNKNOWN"
	RejectReasonIncorrectData       RejectReason = "INCORRECT_DATA"
	RejectReasonUnexpectedOperation RejectReason = "UNEXPECTED_OPERATION"
)

const maxRejectReasonLength = 32

type PushPlatform string

const (
	PushPlatformFCM  PushPlatform = "fcm"
	PushPlatformAPNS PushPlatform = "apns"
	PushPlatformHMS  PushPlatform = "hms"
)

func (p PushPlatform) Valid() bool {
	switch p {
	case PushPlatformFCM, PushPlatformAPNS, PushPlatformHMS:
		return true
	default:
		return false
	}
}
