package core

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEventHub_PublishesInRegistrationOrderAndJoinsErrors(t *testing.T) {
	var order []string
	hub := NewEventHub(
		EventListenerFunc{ID: "first", Fn: func(context.Context, Event) error {
			order = append(order, "first")
			return errors.New("first broke")
		}},
		EventListenerFunc{ID: "second", Fn: func(context.Context, Event) error {
			order = append(order, "second")
			return nil
		}},
	)
	hub.Register(nil)
	if hub.Len() != 2 {
		t.Fatalf("expected 2 listeners, got %d", hub.Len())
	}

	err := hub.Publish(context.Background(), Event{Channel: ChannelLogs})
	if err == nil || !strings.Contains(err.Error(), `event listener "first" failed`) {
		t.Fatalf("expected joined listener failure, got %v", err)
	}
	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Fatalf("expected delivery to continue past failures in order, got %v", order)
	}
}

func TestBridge_ExternalURLBufferedUntilReadyAndProcessedFirst(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	bridge, err := newTestBridge(backend)
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}

	queued := bridge.Submit(ctx, ResolveLinkPayload{URL: "https://x.ly/r"})
	if !bridge.ReceiveURL(ctx, URLDelivery{URL: "https://x.ly/launch", Source: URLSourceLaunchIntent}) {
		t.Fatalf("expected url to be accepted before init")
	}
	if _, urls := bridge.Pending(); urls != 1 {
		t.Fatalf("expected buffered url, got %d", urls)
	}
	if calls := backend.session.callLog(); len(calls) != 0 {
		t.Fatalf("expected nothing processed before init, got %v", calls)
	}

	if err := bridge.Initialize(ctx, testSDKConfig()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	want := []string{"handle_deep_link:https://x.ly/launch", "resolve_link:https://x.ly/r"}
	if calls := backend.session.callLog(); !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected buffered urls before queued calls:\nwant %v\ngot  %v", want, calls)
	}
	if !queued.Resolved() {
		t.Fatalf("expected queued call to resolve")
	}
}

func TestBridge_ExternalURLDuplicateSuppressed(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock()
	backend := newStubBackend()
	metrics := &captureMetricsRecorder{}
	bridge, err := newTestBridge(backend, WithClock(clock.Now), WithMetricsRecorder(metrics))
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	if err := bridge.Initialize(ctx, testSDKConfig()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	delivery := URLDelivery{URL: "https://x.ly/a", Source: URLSourceUniversalLink}
	if !bridge.ReceiveURL(ctx, delivery) {
		t.Fatalf("expected first delivery to be accepted")
	}
	clock.Advance(500 * time.Millisecond)
	if bridge.ReceiveURL(ctx, delivery) {
		t.Fatalf("expected redelivery within window to be suppressed")
	}
	clock.Advance(2 * time.Second)
	if !bridge.ReceiveURL(ctx, delivery) {
		t.Fatalf("expected redelivery after window to be accepted")
	}
	if handled := backend.session.handled; len(handled) != 2 {
		t.Fatalf("expected two deep link hand-offs, got %v", handled)
	}
	if !hasCounterNamed(metrics.snapshotCounters(), metricFilterSuppressed) {
		t.Fatalf("expected suppression counter")
	}
}

func TestBridge_ExternalURLDroppedWhenIntegrationDisabled(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	bridge, err := newTestBridge(backend)
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	bridge.ReceiveURL(ctx, URLDelivery{URL: "https://x.ly/early", Source: URLSourceURLScheme})

	cfg := testSDKConfig()
	cfg.DisableDeepLinkIntegration = true
	if err := bridge.Initialize(ctx, cfg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if bridge.ReceiveURL(ctx, URLDelivery{URL: "https://x.ly/late", Source: URLSourceURLScheme}) {
		t.Fatalf("expected url to be dropped with integration disabled")
	}
	if handled := backend.session.handled; len(handled) != 0 {
		t.Fatalf("expected no deep link hand-offs, got %v", handled)
	}
}

func TestBridge_ZeroValueSDKConfigHandlesExternalURLs(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	bridge, err := newTestBridge(backend)
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	if err := bridge.Initialize(ctx, SDKConfig{APIKey: "ulk_test"}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !bridge.ReceiveURL(ctx, URLDelivery{URL: "https://x.ly/zero", Source: URLSourceURLScheme}) {
		t.Fatalf("expected url to reach the backend")
	}
	if handled := backend.session.handled; len(handled) != 1 || handled[0] != "https://x.ly/zero" {
		t.Fatalf("expected one deep link hand-off, got %v", handled)
	}
}

func TestSDKConfig_ZeroValueMatchesDefaults(t *testing.T) {
	var cfg SDKConfig
	if !cfg.DeepLinksEnabled() {
		t.Fatalf("expected deep links enabled on zero value")
	}
	if !cfg.ClearLastLinkOnRead() {
		t.Fatalf("expected last link cleared on read on zero value")
	}
	defaults := DefaultSDKConfig()
	if defaults.DeepLinksEnabled() != cfg.DeepLinksEnabled() || defaults.ClearLastLinkOnRead() != cfg.ClearLastLinkOnRead() {
		t.Fatalf("expected defaults to agree with zero value flags")
	}
}

func TestBridge_ExternalURLInvalidIgnored(t *testing.T) {
	bridge, err := newTestBridge(newStubBackend())
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	if bridge.ReceiveURL(context.Background(), URLDelivery{URL: "   "}) {
		t.Fatalf("expected empty url to be ignored")
	}
	if _, urls := bridge.Pending(); urls != 0 {
		t.Fatalf("expected nothing buffered, got %d", urls)
	}
}

func TestBridge_ExternalURLAfterFailedInitEmitsNotReady(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	backend.err = errors.New("init failed")
	listener := newRecordingListener("recorder")
	bridge, err := newTestBridge(backend, WithEventListener(listener))
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	bridge.ReceiveURL(ctx, URLDelivery{URL: "https://x.ly/pending"})
	if err := bridge.Initialize(ctx, testSDKConfig()); err == nil {
		t.Fatalf("expected initialize failure")
	}

	events := listener.snapshot()
	if len(events) != 2 {
		t.Fatalf("expected not ready events on both link channels, got %d", len(events))
	}
	channels := []EventChannel{events[0].Channel, events[1].Channel}
	if !reflect.DeepEqual(channels, []EventChannel{ChannelDynamicLinks, ChannelUnifiedLinks}) {
		t.Fatalf("unexpected channels %v", channels)
	}
	for _, event := range events {
		if !IsNotReady(event.Err) {
			t.Fatalf("expected not ready error event, got %v", event.Err)
		}
		if event.ID == "" || event.EmittedAt.IsZero() {
			t.Fatalf("expected stamped event, got %+v", event)
		}
	}

	if bridge.ReceiveURL(ctx, URLDelivery{URL: "https://x.ly/after"}) {
		t.Fatalf("expected url after failure to be rejected")
	}
	if got := len(listener.snapshot()); got != 4 {
		t.Fatalf("expected two more not ready events, got %d total", got)
	}
}

func TestBridge_ForwardsSessionStreams(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	listener := newRecordingListener("recorder")
	bridge, err := newTestBridge(backend, WithEventListener(listener))
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	if err := bridge.Initialize(ctx, testSDKConfig()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	backend.session.unified <- ResolvedLink{Slug: "promo", Parameters: map[string]any{"a": "b"}}
	event, err := listener.next(time.Second)
	if err != nil {
		t.Fatalf("unified link event: %v", err)
	}
	if event.Channel != ChannelUnifiedLinks || event.Link == nil || event.Link.Slug != "promo" {
		t.Fatalf("unexpected unified event %+v", event)
	}

	backend.session.dynamic <- ResolvedLink{}
	event, err = listener.next(time.Second)
	if err != nil {
		t.Fatalf("dynamic link event: %v", err)
	}
	if event.Channel != ChannelDynamicLinks || !hasTextCode(event.Err, BridgeErrorInvalidLinkData) {
		t.Fatalf("expected invalid link data error event, got %+v", event)
	}

	backend.session.logs <- LogEntry{Level: "info", Tag: "ULink", Message: "hello", Timestamp: 1}
	event, err = listener.next(time.Second)
	if err != nil {
		t.Fatalf("log event: %v", err)
	}
	if event.Channel != ChannelLogs || event.Log == nil || event.Log.Message != "hello" {
		t.Fatalf("unexpected log event %+v", event)
	}

	backend.session.reinstalls <- InstallationInfo{InstallationID: "inst_2", IsReinstall: true}
	event, err = listener.next(time.Second)
	if err != nil {
		t.Fatalf("reinstall event: %v", err)
	}
	if event.Channel != ChannelReinstallDetected || event.Installation == nil || !event.Installation.IsReinstall {
		t.Fatalf("unexpected reinstall event %+v", event)
	}
}

func TestBridge_StopsForwardingAfterDispose(t *testing.T) {
	ctx := context.Background()
	backend := newStubBackend()
	listener := newRecordingListener("recorder")
	bridge, err := newTestBridge(backend)
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	bridge.Subscribe(listener)
	if err := bridge.Initialize(ctx, testSDKConfig()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	bridge.Dispose()

	backend.session.logs <- LogEntry{Message: "late"}
	if _, err := listener.next(50 * time.Millisecond); err == nil {
		t.Fatalf("expected no events after dispose")
	}
}

func hasCounterNamed(items []capturedCounter, name string) bool {
	for _, item := range items {
		if item.name == name {
			return true
		}
	}
	return false
}
