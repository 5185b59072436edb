package mtoken

import (
	"fmt"

	"github.com/goliatone/go-command/runner"
	"github.com/goliatone/go-mtoken/adapters/gocommand"
	mtokencommand "github.com/goliatone/go-mtoken/command"
	mtokenquery "github.com/goliatone/go-mtoken/query"
)

// OperationsService is everything the facade handlers need. *Service
// satisfies it.
type OperationsService = gocommand.OperationsService

type Commands struct {
	Authorize    *mtokencommand.AuthorizeOperationCommand
	Reject       *mtokencommand.RejectOperationCommand
	Claim        *mtokencommand.ClaimOperationCommand
	RegisterPush *mtokencommand.RegisterPushCommand
}

type Queries struct {
	List    *mtokenquery.ListOperationsQuery
	Detail  *mtokenquery.OperationDetailQuery
	History *mtokenquery.OperationHistoryQuery
}

type Facade struct {
	service  OperationsService
	commands Commands
	queries  Queries
}

func NewFacade(service OperationsService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("mtoken: operations service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			Authorize:    mtokencommand.NewAuthorizeOperationCommand(service),
			Reject:       mtokencommand.NewRejectOperationCommand(service),
			Claim:        mtokencommand.NewClaimOperationCommand(service),
			RegisterPush: mtokencommand.NewRegisterPushCommand(service),
		},
		queries: Queries{
			List:    mtokenquery.NewListOperationsQuery(service),
			Detail:  mtokenquery.NewOperationDetailQuery(service),
			History: mtokenquery.NewOperationHistoryQuery(service),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() OperationsService {
	if f == nil {
		return nil
	}
	return f.service
}

// Register adds every handler to the registry and subscribes it to the
// go-command dispatcher. Callers unsubscribe through the returned value.
func (f *Facade) Register(adapter *gocommand.RegistryAdapter, runnerOpts ...runner.Option) (gocommand.Subscriptions, error) {
	if f == nil {
		return nil, fmt.Errorf("mtoken: facade is nil")
	}
	if adapter == nil {
		return nil, fmt.Errorf("mtoken: registry adapter is required")
	}
	c, q := f.commands, f.queries
	return gocommand.RegisterAll(adapter, []gocommand.Registration{
		gocommand.CommandRegistration(c.Authorize),
		gocommand.CommandRegistration(c.Reject),
		gocommand.CommandRegistration(c.Claim),
		gocommand.CommandRegistration(c.RegisterPush),
		gocommand.QueryRegistration(q.List),
		gocommand.QueryRegistration(q.Detail),
		gocommand.QueryRegistration(q.History),
	}, runnerOpts...)
}
