package core

import (
	"context"
	"strings"
	"unicode/utf8"
)

const (
	EndpointOperationList      = "api/auth/token/app/operation/list"
	EndpointOperationDetail    = "api/auth/token/app/operation/detail"
	EndpointOperationClaim     = "api/auth/token/app/operation/detail/claim"
	EndpointOperationAuthorize = "api/auth/token/app/operation/authorize"
	EndpointOperationReject    = "api/auth/token/app/operation/cancel"
	EndpointOperationHistory   = "api/auth/token/app/operation/history"
	EndpointPushRegister       = "api/push/device/register/token"
)

const (
	OperationList         = "list"
	OperationDetail       = "detail"
	OperationClaim        = "claim"
	OperationAuthorize    = "authorize"
	OperationReject       = "reject"
	OperationHistory      = "history"
	OperationRegisterPush = "register_push"
)

type requestObject[T any] struct {
	RequestObject T `json:"requestObject"`
}

type operationIDBody struct {
	ID string `json:"id"`
}

type authorizeBody struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

type rejectBody struct {
	ID     string       `json:"id"`
	Reason RejectReason `json:"reason"`
}

type pushBody struct {
	Platform PushPlatform `json:"platform"`
	Token    string       `json:"token"`
}

func wrap[T any](body T) requestObject[T] {
	return requestObject[T]{RequestObject: body}
}

// List fetches the operations currently pending for the user.
func (s *Service) List(ctx context.Context, opts ...CallOption) (Envelope[[]UserOperation], error) {
	if s == nil {
		return Envelope[[]UserOperation]{}, internalError("core: service is nil")
	}
	return call[[]UserOperation](ctx, s, OperationList,
		s.possessionRequest(EndpointOperationList, nil, opts),
		true, nil)
}

// Detail fetches a single operation by id.
func (s *Service) Detail(ctx context.Context, operationID string, opts ...CallOption) (Envelope[UserOperation], error) {
	if s == nil {
		return Envelope[UserOperation]{}, internalError("core: service is nil")
	}
	operationID = strings.TrimSpace(operationID)
	if operationID == "" {
		return Envelope[UserOperation]{}, s.mapError(validationError("operation_id", "operation id is required"))
	}
	return call[UserOperation](ctx, s, OperationDetail,
		s.possessionRequest(EndpointOperationDetail, wrap(operationIDBody{ID: operationID}), opts),
		true, map[string]any{"operation_id": operationID})
}

// Claim assigns an operation that was not bound to a user (for example one
// scanned from a QR code) to the current user and returns it.
func (s *Service) Claim(ctx context.Context, operationID string, opts ...CallOption) (Envelope[UserOperation], error) {
	if s == nil {
		return Envelope[UserOperation]{}, internalError("core: service is nil")
	}
	operationID = strings.TrimSpace(operationID)
	if operationID == "" {
		return Envelope[UserOperation]{}, s.mapError(validationError("operation_id", "operation id is required"))
	}
	return call[UserOperation](ctx, s, OperationClaim,
		s.possessionRequest(EndpointOperationClaim, wrap(operationIDBody{ID: operationID}), opts),
		true, map[string]any{"operation_id": operationID})
}

// Authorize approves the operation with the given authentication. The factor
// is checked against the operation's allowed signature before any token is
// requested.
func (s *Service) Authorize(ctx context.Context, operation UserOperation, auth Authentication, opts ...CallOption) (Envelope[Empty], error) {
	if s == nil {
		return Envelope[Empty]{}, internalError("core: service is nil")
	}
	operationID := strings.TrimSpace(operation.ID)
	if operationID == "" {
		return Envelope[Empty]{}, s.mapError(validationError("operation_id", "operation id is required"))
	}
	factor := auth.ResolvedFactor()
	if !operation.AllowedSignatureType.Permits(factor) {
		return Envelope[Empty]{}, s.mapError(badInputError("core: signature factor " + string(factor) + " is not permitted for operation").
			WithTextCode(ErrorSignatureNotPermitted).
			WithMetadata(map[string]any{
				"operation_id": operationID,
				"factor":       string(factor),
			}))
	}
	req := s.signedRequest(EndpointOperationAuthorize, wrap(authorizeBody{ID: operationID, Data: operation.Data}), auth, opts)
	return call[Empty](ctx, s, OperationAuthorize, req, false, map[string]any{
		"operation_id": operationID,
		"factor":       string(factor),
	})
}

// Reject declines the operation. Besides the RejectReason constants any
// non-empty reason up to 32 characters is accepted.
func (s *Service) Reject(ctx context.Context, operationID string, reason RejectReason, opts ...CallOption) (Envelope[Empty], error) {
	if s == nil {
		return Envelope[Empty]{}, internalError("core: service is nil")
	}
	operationID = strings.TrimSpace(operationID)
	if operationID == "" {
		return Envelope[Empty]{}, s.mapError(validationError("operation_id", "operation id is required"))
	}
	if err := ValidateRejectReason(reason); err != nil {
		return Envelope[Empty]{}, s.mapError(validationError("reason", err.Error()))
	}
	return call[Empty](ctx, s, OperationReject,
		s.possessionRequest(EndpointOperationReject, wrap(rejectBody{ID: operationID, Reason: reason}), opts),
		false, map[string]any{
			"operation_id": operationID,
			"reason":       string(reason),
		})
}

// History lists recently finished operations. The server requires two
// factor authentication for it.
func (s *Service) History(ctx context.Context, auth Authentication, opts ...CallOption) (Envelope[[]UserOperation], error) {
	if s == nil {
		return Envelope[[]UserOperation]{}, internalError("core: service is nil")
	}
	return call[[]UserOperation](ctx, s, OperationHistory,
		s.signedRequest(EndpointOperationHistory, nil, auth, opts),
		true, map[string]any{"factor": string(auth.ResolvedFactor())})
}

// RegisterPush registers the device push token for operation notifications.
func (s *Service) RegisterPush(ctx context.Context, platform PushPlatform, pushToken string, opts ...CallOption) (Envelope[Empty], error) {
	if s == nil {
		return Envelope[Empty]{}, internalError("core: service is nil")
	}
	if !platform.Valid() {
		return Envelope[Empty]{}, s.mapError(validationError("platform", "unsupported push platform "+string(platform)))
	}
	pushToken = strings.TrimSpace(pushToken)
	if pushToken == "" {
		return Envelope[Empty]{}, s.mapError(validationError("token", "push token is required"))
	}
	return call[Empty](ctx, s, OperationRegisterPush,
		s.possessionRequest(EndpointPushRegister, wrap(pushBody{Platform: platform, Token: pushToken}), opts),
		false, map[string]any{"platform": string(platform)})
}

// ValidateRejectReason accepts any non-empty reason of at most 32 characters.
func ValidateRejectReason(reason RejectReason) error {
	value := strings.TrimSpace(string(reason))
	if value == "" {
		return errRejectReasonRequired
	}
	if utf8.RuneCountInString(value) > maxRejectReasonLength {
		return errRejectReasonTooLong
	}
	return nil
}

func (s *Service) possessionRequest(path string, body any, opts []CallOption) SignedRequest {
	return s.signedRequest(path, body, PossessionAuthentication(), opts)
}

func (s *Service) signedRequest(path string, body any, auth Authentication, opts []CallOption) SignedRequest {
	resolved := resolveCallOptions(opts)
	return SignedRequest{
		Path:           path,
		Body:           body,
		TokenName:      s.config.TokenName,
		Authentication: auth,
		AcceptLanguage: resolved.language,
		Processor:      resolved.processor,
	}
}
