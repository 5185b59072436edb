package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	mtokencommand "github.com/goliatone/go-mtoken/command"
	"github.com/goliatone/go-mtoken/core"
	mtokenquery "github.com/goliatone/go-mtoken/query"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

var errRegistryNotConfigured = fmt.Errorf("gocommand: registry is not configured")

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return errRegistryNotConfigured
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return errRegistryNotConfigured
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return errRegistryNotConfigured
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return errRegistryNotConfigured
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

// DispatchWithResult runs a command and returns the envelope the handler
// stored through the go-command result collector.
func DispatchWithResult[T any, R any](ctx context.Context, msg T) (R, error) {
	var zero R
	if ctx == nil {
		ctx = context.Background()
	}
	result := command.NewResult[R]()
	ctx = command.ContextWithResult(ctx, result)
	if err := commanddispatcher.Dispatch(ctx, msg); err != nil {
		return zero, err
	}
	value, _ := result.Load()
	return value, nil
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, errRegistryNotConfigured
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, errRegistryNotConfigured
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

type Subscription = commanddispatcher.Subscription

// Subscriptions unsubscribes a group of handlers at once.
type Subscriptions []Subscription

func (s Subscriptions) Unsubscribe() {
	for _, sub := range s {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

// Registration registers and subscribes one handler.
type Registration func(adapter *RegistryAdapter, runnerOpts ...runner.Option) (Subscription, error)

func CommandRegistration[T any](cmd command.Commander[T]) Registration {
	return func(adapter *RegistryAdapter, runnerOpts ...runner.Option) (Subscription, error) {
		return RegisterAndSubscribe(adapter, cmd, runnerOpts...)
	}
}

func QueryRegistration[T any, R any](qry command.Querier[T, R]) Registration {
	return func(adapter *RegistryAdapter, runnerOpts ...runner.Option) (Subscription, error) {
		return RegisterAndSubscribeQuery(adapter, qry, runnerOpts...)
	}
}

// RegisterAll applies every registration in order. On failure the handlers
// subscribed so far are removed again.
func RegisterAll(adapter *RegistryAdapter, registrations []Registration, runnerOpts ...runner.Option) (Subscriptions, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, errRegistryNotConfigured
	}
	subs := make(Subscriptions, 0, len(registrations))
	for _, register := range registrations {
		if register == nil {
			continue
		}
		sub, err := register(adapter, runnerOpts...)
		if err != nil {
			subs.Unsubscribe()
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// OperationsService is the full operation surface backed by *core.Service.
type OperationsService interface {
	mtokencommand.OperationService
	mtokenquery.OperationReader
	mtokenquery.HistoryReader
}

// OperationRegistrations lists the command and query handlers for service.
func OperationRegistrations(service OperationsService) []Registration {
	return []Registration{
		CommandRegistration(mtokencommand.NewAuthorizeOperationCommand(service)),
		CommandRegistration(mtokencommand.NewRejectOperationCommand(service)),
		CommandRegistration(mtokencommand.NewClaimOperationCommand(service)),
		CommandRegistration(mtokencommand.NewRegisterPushCommand(service)),
		QueryRegistration(mtokenquery.NewListOperationsQuery(service)),
		QueryRegistration(mtokenquery.NewOperationDetailQuery(service)),
		QueryRegistration(mtokenquery.NewOperationHistoryQuery(service)),
	}
}

// RegisterOperationHandlers registers and subscribes every operation command
// and query backed by service.
func RegisterOperationHandlers(
	adapter *RegistryAdapter,
	service OperationsService,
	runnerOpts ...runner.Option,
) (Subscriptions, error) {
	if service == nil {
		return nil, fmt.Errorf("gocommand: mtoken service is required")
	}
	return RegisterAll(adapter, OperationRegistrations(service), runnerOpts...)
}

var _ OperationsService = (*core.Service)(nil)
