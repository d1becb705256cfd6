package linkbridge

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-linkbridge/core"
)

// BackendFactory builds a backend for the named platform integration.
type BackendFactory func() (core.Backend, error)

type ListenerPack struct {
	Name      string
	Listeners []core.EventListener
}

type CommandQueryBundleFactory func(bridge CommandQueryBridge) (any, error)

// EventSubscriber is satisfied by *core.Bridge.
type EventSubscriber interface {
	Subscribe(listener core.EventListener)
}

type ExtensionHooks struct {
	mu sync.RWMutex

	backends      map[string]BackendFactory
	listenerPacks map[string]ListenerPack
	bundles       map[string]CommandQueryBundleFactory
}

func NewExtensionHooks() *ExtensionHooks {
	return &ExtensionHooks{
		backends:      map[string]BackendFactory{},
		listenerPacks: map[string]ListenerPack{},
		bundles:       map[string]CommandQueryBundleFactory{},
	}
}

func (h *ExtensionHooks) RegisterBackend(name string, factory BackendFactory) error {
	if h == nil {
		return fmt.Errorf("linkbridge: extension hooks are nil")
	}
	name = normalizeHookName(name)
	if name == "" {
		return fmt.Errorf("linkbridge: backend name is required")
	}
	if factory == nil {
		return fmt.Errorf("linkbridge: backend %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.backends[name]; exists {
		return fmt.Errorf("linkbridge: backend %q already registered", name)
	}
	h.backends[name] = factory
	return nil
}

// NewBridge builds the named backend and wraps it in a bridge with every
// registered listener pack subscribed.
func (h *ExtensionHooks) NewBridge(name string, opts ...core.Option) (*core.Bridge, error) {
	if h == nil {
		return nil, fmt.Errorf("linkbridge: extension hooks are nil")
	}
	name = normalizeHookName(name)
	h.mu.RLock()
	factory, ok := h.backends[name]
	h.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("linkbridge: backend %q is not registered", name)
	}
	backend, err := factory()
	if err != nil {
		return nil, err
	}
	bridge, err := core.NewBridge(backend, opts...)
	if err != nil {
		return nil, err
	}
	if err := h.ApplyListenerPacks(bridge); err != nil {
		return nil, err
	}
	return bridge, nil
}

func (h *ExtensionHooks) RegisterListenerPack(pack ListenerPack) error {
	if h == nil {
		return fmt.Errorf("linkbridge: extension hooks are nil")
	}
	name := strings.TrimSpace(pack.Name)
	if name == "" {
		return fmt.Errorf("linkbridge: listener pack name is required")
	}
	if len(pack.Listeners) == 0 {
		return fmt.Errorf("linkbridge: listener pack %q has no listeners", name)
	}

	normalized := ListenerPack{
		Name:      name,
		Listeners: append([]core.EventListener(nil), pack.Listeners...),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.listenerPacks[name]; exists {
		return fmt.Errorf("linkbridge: listener pack %q already registered", name)
	}
	h.listenerPacks[name] = normalized
	return nil
}

func (h *ExtensionHooks) RegisterCommandQueryBundle(
	name string,
	factory CommandQueryBundleFactory,
) error {
	if h == nil {
		return fmt.Errorf("linkbridge: extension hooks are nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("linkbridge: command/query bundle name is required")
	}
	if factory == nil {
		return fmt.Errorf("linkbridge: command/query bundle %q factory is required", name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.bundles[name]; exists {
		return fmt.Errorf("linkbridge: command/query bundle %q already registered", name)
	}
	h.bundles[name] = factory
	return nil
}

// ApplyListenerPacks subscribes listeners in pack name order.
func (h *ExtensionHooks) ApplyListenerPacks(subscriber EventSubscriber) error {
	if h == nil {
		return nil
	}
	if subscriber == nil {
		return fmt.Errorf("linkbridge: event subscriber is required")
	}

	for _, pack := range h.ListenerPacks() {
		for _, listener := range pack.Listeners {
			if listener == nil {
				return fmt.Errorf("linkbridge: listener pack %q contains nil listener", pack.Name)
			}
			subscriber.Subscribe(listener)
		}
	}
	return nil
}

func (h *ExtensionHooks) BuildCommandQueryBundles(
	bridge CommandQueryBridge,
) (map[string]any, error) {
	if h == nil {
		return map[string]any{}, nil
	}
	if bridge == nil {
		return nil, fmt.Errorf("linkbridge: command/query bridge is required")
	}

	h.mu.RLock()
	factories := make(map[string]CommandQueryBundleFactory, len(h.bundles))
	for name, factory := range h.bundles {
		factories[name] = factory
	}
	h.mu.RUnlock()

	result := make(map[string]any, len(factories))
	for _, name := range sortedKeys(factories) {
		bundle, err := factories[name](bridge)
		if err != nil {
			return nil, err
		}
		result[name] = bundle
	}
	return result, nil
}

func (h *ExtensionHooks) ListenerPacks() []ListenerPack {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]ListenerPack, 0, len(h.listenerPacks))
	for _, name := range sortedKeys(h.listenerPacks) {
		pack := h.listenerPacks[name]
		out = append(out, ListenerPack{
			Name:      pack.Name,
			Listeners: append([]core.EventListener(nil), pack.Listeners...),
		})
	}
	return out
}

func (h *ExtensionHooks) BackendNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sortedKeys(h.backends)
}

func (h *ExtensionHooks) BundleNames() []string {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sortedKeys(h.bundles)
}

func normalizeHookName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

func sortedKeys[V any](in map[string]V) []string {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
