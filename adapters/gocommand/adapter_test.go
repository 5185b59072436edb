package gocommand

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goliatone/go-command"
	mtokencommand "github.com/goliatone/go-mtoken/command"
	"github.com/goliatone/go-mtoken/core"
	"github.com/goliatone/go-mtoken/devkit"
	mtokenquery "github.com/goliatone/go-mtoken/query"
	"github.com/goliatone/go-mtoken/transport"
)

type okMessage struct{}

func (okMessage) Type() string { return "mtoken.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "mtoken.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "mtoken.command.test" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
	if err := ValidateMessageContract(mtokencommand.RejectOperationMessage{}); err == nil {
		t.Fatalf("expected reject message without id to fail validation")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[dispatchMessage](func(context.Context, dispatchMessage) error {
		executed++
		return nil
	})

	sub, err := RegisterAndSubscribe(adapter, cmd)
	if err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	defer sub.Unsubscribe()
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestNilAdapterIsRejected(t *testing.T) {
	var adapter *RegistryAdapter
	if err := adapter.RegisterCommand(okMessage{}); err == nil {
		t.Fatalf("expected nil adapter to fail registration")
	}
	if adapter.HasResolver("x") {
		t.Fatalf("expected nil adapter to report no resolvers")
	}
	if _, err := RegisterOperationHandlers(NewRegistryAdapter(nil), nil); err == nil {
		t.Fatalf("expected nil service to be rejected")
	}
}

func TestRegisterOperationHandlersRoutesToService(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/enrollment-server/api/auth/token/app/operation/list":
			_, _ = w.Write([]byte(devkit.OKResponse("[" + devkit.SampleOperationJSON + "]")))
		default:
			_, _ = w.Write([]byte(`{"status":"OK"}`))
		}
	}))
	defer server.Close()

	service, err := core.NewService(core.DefaultConfig(),
		core.WithTokenProvider(devkit.NewFakeTokenProvider(server.URL+"/enrollment-server/")),
		core.WithTransport(transport.NewRESTAdapter(server.Client())),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	adapter := NewRegistryAdapter(nil)
	subs, err := RegisterOperationHandlers(adapter, service)
	if err != nil {
		t.Fatalf("register operation handlers: %v", err)
	}
	defer subs.Unsubscribe()
	if len(subs) != 7 {
		t.Fatalf("expected 7 subscriptions, got %d", len(subs))
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	ctx := context.Background()
	list, err := Query[mtokenquery.ListOperationsMessage, core.Envelope[[]core.UserOperation]](ctx, mtokenquery.ListOperationsMessage{})
	if err != nil {
		t.Fatalf("list query: %v", err)
	}
	operations, ok := list.Payload()
	if !ok || len(operations) != 1 {
		t.Fatalf("expected one listed operation, got %+v", list)
	}

	rejected, err := DispatchWithResult[mtokencommand.RejectOperationMessage, core.Envelope[core.Empty]](ctx,
		mtokencommand.RejectOperationMessage{OperationID: operations[0].ID, Reason: core.RejectReasonUnexpectedOperation})
	if err != nil {
		t.Fatalf("reject command: %v", err)
	}
	if rejected.ResponseError != nil {
		t.Fatalf("expected successful reject, got %+v", rejected.ResponseError)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 2 || paths[1] != "/enrollment-server/api/auth/token/app/operation/cancel" {
		t.Fatalf("unexpected request paths %v", paths)
	}
}
