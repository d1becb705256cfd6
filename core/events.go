package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// EventHub fans bridge events out to listeners in registration order.
type EventHub struct {
	mu        sync.RWMutex
	listeners []EventListener
}

func NewEventHub(listeners ...EventListener) *EventHub {
	hub := &EventHub{listeners: make([]EventListener, 0, len(listeners))}
	for _, listener := range listeners {
		hub.Register(listener)
	}
	return hub
}

func (h *EventHub) Register(listener EventListener) {
	if h == nil || listener == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, listener)
}

func (h *EventHub) Len() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Publish delivers event to every listener. A failing listener does not stop
// delivery to the rest; failures are joined and returned.
func (h *EventHub) Publish(ctx context.Context, event Event) error {
	var publishErr error
	for _, listener := range h.snapshot() {
		if err := listener.OnEvent(ctx, event); err != nil {
			publishErr = errors.Join(publishErr, fmt.Errorf("event listener %q failed: %w", listenerName(listener), err))
		}
	}
	return publishErr
}

func (h *EventHub) snapshot() []EventListener {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]EventListener, len(h.listeners))
	copy(out, h.listeners)
	return out
}

func listenerName(listener EventListener) string {
	name := strings.TrimSpace(listener.Name())
	if name == "" {
		return "unnamed"
	}
	return name
}

// emit stamps and publishes event unless ctx already ended. Listener
// failures are logged, never returned to the stream that produced the event.
func (b *Bridge) emit(ctx context.Context, event Event) {
	if b == nil || ctx.Err() != nil {
		return
	}
	if event.ID == "" {
		event.ID = b.newID()
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = b.now()
	}
	tags := map[string]string{"channel": string(event.Channel)}
	if event.Err != nil {
		tags["status"] = "error"
	} else {
		tags["status"] = "success"
	}
	b.recordCounter(ctx, metricEventsEmitted, 1, tags)
	if err := b.hub.Publish(ctx, event); err != nil {
		b.recordCounter(ctx, metricListenerFailures, 1, tags)
		b.logWarn(ctx, "event delivery failed", map[string]any{
			"event_id": event.ID,
			"channel":  string(event.Channel),
			"error":    err.Error(),
		})
	}
}

func (b *Bridge) emitLink(ctx context.Context, channel EventChannel, link ResolvedLink) {
	if !link.HasContent() {
		b.emit(ctx, Event{Channel: channel, Err: InvalidLinkDataError(channel, link.RawData)})
		return
	}
	b.emit(ctx, Event{Channel: channel, Link: &link})
}

// startForwarders pumps the session streams into the hub until scope ends
// or the backend closes a stream.
func (b *Bridge) startForwarders(scope context.Context, streams SessionStreams) {
	if streams.DynamicLinks != nil {
		b.forward(scope, func() bool {
			select {
			case <-scope.Done():
				return false
			case link, ok := <-streams.DynamicLinks:
				if ok {
					b.emitLink(scope, ChannelDynamicLinks, link)
				}
				return ok
			}
		})
	}
	if streams.UnifiedLinks != nil {
		b.forward(scope, func() bool {
			select {
			case <-scope.Done():
				return false
			case link, ok := <-streams.UnifiedLinks:
				if ok {
					b.emitLink(scope, ChannelUnifiedLinks, link)
				}
				return ok
			}
		})
	}
	if streams.Logs != nil {
		b.forward(scope, func() bool {
			select {
			case <-scope.Done():
				return false
			case entry, ok := <-streams.Logs:
				if ok {
					b.emit(scope, Event{Channel: ChannelLogs, Log: &entry})
				}
				return ok
			}
		})
	}
	if streams.Reinstalls != nil {
		b.forward(scope, func() bool {
			select {
			case <-scope.Done():
				return false
			case info, ok := <-streams.Reinstalls:
				if ok {
					b.emit(scope, Event{Channel: ChannelReinstallDetected, Installation: &info})
				}
				return ok
			}
		})
	}
}

func (b *Bridge) forward(scope context.Context, step func() bool) {
	go func() {
		for scope.Err() == nil && step() {
		}
	}()
}
