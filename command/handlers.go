package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-mtoken/core"
)

// OperationService is the mutating subset of *core.Service.
type OperationService interface {
	Authorize(ctx context.Context, operation core.UserOperation, auth core.Authentication, opts ...core.CallOption) (core.Envelope[core.Empty], error)
	Reject(ctx context.Context, operationID string, reason core.RejectReason, opts ...core.CallOption) (core.Envelope[core.Empty], error)
	Claim(ctx context.Context, operationID string, opts ...core.CallOption) (core.Envelope[core.UserOperation], error)
	RegisterPush(ctx context.Context, platform core.PushPlatform, token string, opts ...core.CallOption) (core.Envelope[core.Empty], error)
}

// Commands store the classified envelope in the go-command result collector
// when one is attached to the context. Server reported errors are not
// command failures.
type AuthorizeOperationCommand struct {
	service OperationService
}

func NewAuthorizeOperationCommand(service OperationService) *AuthorizeOperationCommand {
	return &AuthorizeOperationCommand{service: service}
}

func (c *AuthorizeOperationCommand) Execute(ctx context.Context, msg AuthorizeOperationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: authorize service is required")
	}
	out, err := c.service.Authorize(ctx, msg.Operation, msg.Authentication, callOptions(msg.Language)...)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RejectOperationCommand struct {
	service OperationService
}

func NewRejectOperationCommand(service OperationService) *RejectOperationCommand {
	return &RejectOperationCommand{service: service}
}

func (c *RejectOperationCommand) Execute(ctx context.Context, msg RejectOperationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: reject service is required")
	}
	out, err := c.service.Reject(ctx, msg.OperationID, msg.Reason, callOptions(msg.Language)...)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ClaimOperationCommand struct {
	service OperationService
}

func NewClaimOperationCommand(service OperationService) *ClaimOperationCommand {
	return &ClaimOperationCommand{service: service}
}

func (c *ClaimOperationCommand) Execute(ctx context.Context, msg ClaimOperationMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: claim service is required")
	}
	out, err := c.service.Claim(ctx, msg.OperationID, callOptions(msg.Language)...)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RegisterPushCommand struct {
	service OperationService
}

func NewRegisterPushCommand(service OperationService) *RegisterPushCommand {
	return &RegisterPushCommand{service: service}
}

func (c *RegisterPushCommand) Execute(ctx context.Context, msg RegisterPushMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: push registration service is required")
	}
	out, err := c.service.RegisterPush(ctx, msg.Platform, msg.Token)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
