package gocommand

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	goerrors "github.com/goliatone/go-errors"
)

// MessageNamespace prefixes every bridge command and query type.
const MessageNamespace = "linkbridge."

const (
	ErrorRegistryMissing   = "LINKBRIDGE_REGISTRY_MISSING"
	ErrorMessageContract   = "LINKBRIDGE_MESSAGE_CONTRACT"
	ErrorMessageRegistered = "LINKBRIDGE_MESSAGE_REGISTERED"
)

func adapterError(message string, code string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(code)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

// ValidateMessageContract checks that msg is a namespaced command.Message and
// that its own Validate passes.
func ValidateMessageContract(msg any) error {
	m, ok := msg.(command.Message)
	if !ok {
		return adapterError("gocommand: message must implement Type() string", ErrorMessageContract, nil)
	}
	messageType := strings.TrimSpace(m.Type())
	if !strings.HasPrefix(messageType, MessageNamespace) || len(messageType) == len(MessageNamespace) {
		return adapterError("gocommand: message type must be under "+MessageNamespace, ErrorMessageContract,
			map[string]any{"message_type": messageType})
	}
	return command.ValidateMessage(msg)
}

// RegistryAdapter owns the go-command registry the bridge handlers are
// registered into and remembers which message types it has seen.
type RegistryAdapter struct {
	registry *command.Registry

	mu    sync.Mutex
	types map[string]struct{}
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry, types: map[string]struct{}{}}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) Initialize() error {
	if !a.configured() {
		return adapterError("gocommand: registry is not configured", ErrorRegistryMissing, nil)
	}
	return a.registry.Initialize()
}

// RegisteredTypes lists the claimed message types in sorted order.
func (a *RegistryAdapter) RegisteredTypes() []string {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.types))
	for messageType := range a.types {
		out = append(out, messageType)
	}
	sort.Strings(out)
	return out
}

func (a *RegistryAdapter) configured() bool {
	return a != nil && a.registry != nil
}

func (a *RegistryAdapter) claim(messageType string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.types[messageType]; exists {
		return adapterError("gocommand: message type already registered", ErrorMessageRegistered,
			map[string]any{"message_type": messageType})
	}
	a.types[messageType] = struct{}{}
	return nil
}

func (a *RegistryAdapter) release(messageType string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.types, messageType)
}

func messageTypeOf[T any]() string {
	var zero T
	if m, ok := any(zero).(command.Message); ok {
		return strings.TrimSpace(m.Type())
	}
	return ""
}

// RegisterAndSubscribe claims the command's message type, subscribes it on
// the global dispatcher and registers it. Nothing is left behind on failure.
func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if !adapter.configured() {
		return nil, adapterError("gocommand: registry is not configured", ErrorRegistryMissing, nil)
	}
	if cmd == nil {
		return nil, adapterError("gocommand: command is required", ErrorMessageContract, nil)
	}
	return adapter.subscribe(messageTypeOf[T](), cmd, func() commanddispatcher.Subscription {
		return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	})
}

// RegisterAndSubscribeQuery is RegisterAndSubscribe for query handlers.
func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if !adapter.configured() {
		return nil, adapterError("gocommand: registry is not configured", ErrorRegistryMissing, nil)
	}
	if qry == nil {
		return nil, adapterError("gocommand: query is required", ErrorMessageContract, nil)
	}
	return adapter.subscribe(messageTypeOf[T](), qry, func() commanddispatcher.Subscription {
		return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	})
}

func (a *RegistryAdapter) subscribe(
	messageType string,
	handler any,
	subscribe func() commanddispatcher.Subscription,
) (commanddispatcher.Subscription, error) {
	if !strings.HasPrefix(messageType, MessageNamespace) {
		return nil, adapterError("gocommand: message type must be under "+MessageNamespace, ErrorMessageContract,
			map[string]any{"message_type": messageType})
	}
	if err := a.claim(messageType); err != nil {
		return nil, err
	}
	subscription := subscribe()
	if err := a.registry.RegisterCommand(handler); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		a.release(messageType)
		return nil, err
	}
	return subscription, nil
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}
