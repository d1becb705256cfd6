package channel

import (
	"context"
	"testing"

	"github.com/goliatone/go-linkbridge/core"
)

func TestChannelListener_RoutesEventsToAttachedSink(t *testing.T) {
	listener := NewChannelListener()
	unified := &recordingSink{}
	if err := listener.Attach(core.ChannelUnifiedLinks, unified); err != nil {
		t.Fatalf("attach: %v", err)
	}

	ctx := context.Background()
	_ = listener.OnEvent(ctx, core.Event{Channel: core.ChannelUnifiedLinks, Link: &core.ResolvedLink{Slug: "promo"}})
	_ = listener.OnEvent(ctx, core.Event{Channel: core.ChannelLogs, Log: &core.LogEntry{Message: "dropped"}})

	if len(unified.payloads) != 1 {
		t.Fatalf("expected one unified payload, got %d", len(unified.payloads))
	}
	payload, _ := unified.payloads[0].(map[string]any)
	if payload["slug"] != "promo" {
		t.Fatalf("unexpected payload %#v", unified.payloads[0])
	}

	listener.Detach(core.ChannelUnifiedLinks)
	_ = listener.OnEvent(ctx, core.Event{Channel: core.ChannelUnifiedLinks, Link: &core.ResolvedLink{Slug: "late"}})
	if len(unified.payloads) != 1 {
		t.Fatalf("expected detached sink to receive nothing")
	}
}

func TestChannelListener_InvalidLinkDataReportsStreamType(t *testing.T) {
	listener := NewChannelListener()
	sink := &recordingSink{}
	if err := listener.Attach(core.ChannelDynamicLinks, sink); err != nil {
		t.Fatalf("attach: %v", err)
	}

	received := map[string]any{"foo": "bar"}
	err := listener.OnEvent(context.Background(), core.Event{
		Channel: core.ChannelDynamicLinks,
		Err:     core.InvalidLinkDataError(core.ChannelDynamicLinks, received),
	})
	if err != nil {
		t.Fatalf("on event: %v", err)
	}
	if len(sink.codes) != 1 || sink.codes[0] != CodeInvalidLinkData {
		t.Fatalf("expected invalid link data error, got %v", sink.codes)
	}
	details, _ := sink.details[0].(map[string]any)
	if details["streamType"] != "dynamic" {
		t.Fatalf("unexpected details %#v", sink.details[0])
	}
	data, _ := details["receivedData"].(map[string]any)
	if data["foo"] != "bar" {
		t.Fatalf("expected received data, got %#v", details["receivedData"])
	}
}

func TestChannelListener_NotReadyErrorOnLinkStream(t *testing.T) {
	listener := NewChannelListener()
	sink := &recordingSink{}
	_ = listener.Attach(core.ChannelUnifiedLinks, sink)

	bridge, err := core.NewBridge(&stubBackend{err: context.DeadlineExceeded}, core.WithEventListener(listener))
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	ctx := context.Background()
	bridge.ReceiveURL(ctx, core.URLDelivery{URL: "https://x.ly/pending"})
	if err := bridge.Initialize(ctx, core.SDKConfig{APIKey: "k"}); err == nil {
		t.Fatalf("expected initialize failure")
	}
	if len(sink.codes) != 1 || sink.codes[0] != CodeNotInitialized {
		t.Fatalf("expected not initialized on unified stream, got %v", sink.codes)
	}
}

func TestChannelListener_RejectsUnknownChannel(t *testing.T) {
	err := NewChannelListener().Attach(core.EventChannel("sms"), &recordingSink{})
	requireMethodError(t, err, CodeInvalidArguments)
}

func TestStreamType(t *testing.T) {
	cases := map[core.EventChannel]string{
		core.ChannelDynamicLinks: "dynamic",
		core.ChannelUnifiedLinks: "unified",
		core.ChannelLogs:         "logs",
	}
	for channel, want := range cases {
		if got := streamType(channel); got != want {
			t.Fatalf("streamType(%s) = %q, want %q", channel, got, want)
		}
	}
}

func TestChannelName(t *testing.T) {
	if got := ChannelName(core.ChannelReinstallDetected); got != "linkbridge/reinstall_detected" {
		t.Fatalf("unexpected channel name %s", got)
	}
}
