package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-mtoken/core"
)

var (
	_ gocmd.Commander[AuthorizeOperationMessage] = (*AuthorizeOperationCommand)(nil)
	_ gocmd.Commander[RejectOperationMessage]    = (*RejectOperationCommand)(nil)
	_ gocmd.Commander[ClaimOperationMessage]     = (*ClaimOperationCommand)(nil)
	_ gocmd.Commander[RegisterPushMessage]       = (*RegisterPushCommand)(nil)

	_ OperationService = (*core.Service)(nil)
)
