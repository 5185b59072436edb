package command

import (
	"strings"

	"github.com/goliatone/go-mtoken/core"
)

const (
	TypeAuthorizeOperation = "mtoken.command.operation.authorize"
	TypeRejectOperation    = "mtoken.command.operation.reject"
	TypeClaimOperation     = "mtoken.command.operation.claim"
	TypeRegisterPush       = "mtoken.command.push.register"
)

type AuthorizeOperationMessage struct {
	Operation      core.UserOperation
	Authentication core.Authentication
	Language       string
}

func (AuthorizeOperationMessage) Type() string { return TypeAuthorizeOperation }

func (m AuthorizeOperationMessage) Validate() error {
	if strings.TrimSpace(m.Operation.ID) == "" {
		return commandValidationError("operation_id", "operation id is required")
	}
	if !m.Operation.AllowedSignatureType.Permits(m.Authentication.ResolvedFactor()) {
		return commandValidationError("authentication", "signature factor is not permitted for operation")
	}
	return nil
}

type RejectOperationMessage struct {
	OperationID string
	Reason      core.RejectReason
	Language    string
}

func (RejectOperationMessage) Type() string { return TypeRejectOperation }

func (m RejectOperationMessage) Validate() error {
	if strings.TrimSpace(m.OperationID) == "" {
		return commandValidationError("operation_id", "operation id is required")
	}
	if err := core.ValidateRejectReason(m.Reason); err != nil {
		return commandValidationError("reason", err.Error())
	}
	return nil
}

type ClaimOperationMessage struct {
	OperationID string
	Language    string
}

func (ClaimOperationMessage) Type() string { return TypeClaimOperation }

func (m ClaimOperationMessage) Validate() error {
	if strings.TrimSpace(m.OperationID) == "" {
		return commandValidationError("operation_id", "operation id is required")
	}
	return nil
}

type RegisterPushMessage struct {
	Platform core.PushPlatform
	Token    string
}

func (RegisterPushMessage) Type() string { return TypeRegisterPush }

func (m RegisterPushMessage) Validate() error {
	if !m.Platform.Valid() {
		return commandValidationError("platform", "unsupported push platform")
	}
	if strings.TrimSpace(m.Token) == "" {
		return commandValidationError("token", "push token is required")
	}
	return nil
}

func callOptions(language string) []core.CallOption {
	if strings.TrimSpace(language) == "" {
		return nil
	}
	return []core.CallOption{core.WithLanguage(language)}
}
