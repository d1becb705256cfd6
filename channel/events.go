package channel

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-linkbridge/core"
)

const channelPrefix = "linkbridge/"

// ChannelName is the host-facing stream name for channel.
func ChannelName(channel core.EventChannel) string {
	return channelPrefix + string(channel)
}

// EventSink receives encoded events for one stream.
type EventSink interface {
	Success(payload any)
	Error(code, message string, details any)
}

// EventPayload encodes the success body of event. Error events return nil.
func EventPayload(event core.Event) any {
	switch {
	case event.Err != nil:
		return nil
	case event.Link != nil:
		return LinkToMap(event.Link)
	case event.Log != nil:
		return LogToMap(event.Log)
	case event.Installation != nil:
		return InstallationToMap(event.Installation)
	default:
		return nil
	}
}

// ChannelListener routes bridge events to the sink attached to each stream.
// Events for streams without a sink are dropped.
type ChannelListener struct {
	mu    sync.RWMutex
	sinks map[core.EventChannel]EventSink
}

func NewChannelListener() *ChannelListener {
	return &ChannelListener{sinks: map[core.EventChannel]EventSink{}}
}

func (l *ChannelListener) Name() string { return "channel.listener" }

// Attach binds sink to channel, replacing any previous sink. A nil sink
// detaches.
func (l *ChannelListener) Attach(channel core.EventChannel, sink EventSink) error {
	if !channel.Known() {
		return &MethodError{Code: CodeInvalidArguments, Message: "unknown event channel " + string(channel)}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if sink == nil {
		delete(l.sinks, channel)
		return nil
	}
	l.sinks[channel] = sink
	return nil
}

func (l *ChannelListener) Detach(channel core.EventChannel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sinks, channel)
}

func (l *ChannelListener) OnEvent(_ context.Context, event core.Event) error {
	l.mu.RLock()
	sink := l.sinks[event.Channel]
	l.mu.RUnlock()
	if sink == nil {
		return nil
	}
	if event.Err != nil {
		methodErr := streamError(event)
		sink.Error(methodErr.Code, methodErr.Message, methodErr.Details)
		return nil
	}
	sink.Success(EventPayload(event))
	return nil
}

// streamType is the short stream name reported in INVALID_LINK_DATA details.
func streamType(channel core.EventChannel) string {
	switch channel {
	case core.ChannelDynamicLinks:
		return "dynamic"
	case core.ChannelUnifiedLinks:
		return "unified"
	default:
		return string(channel)
	}
}

func streamError(event core.Event) *MethodError {
	var methodErr *MethodError
	if errors.As(event.Err, &methodErr) {
		return methodErr
	}
	out := toMethodError("", event.Err)
	if out.Code == CodeInvalidLinkData {
		details := copyMap(nil)
		details["streamType"] = streamType(event.Channel)
		if received, ok := out.Details.(map[string]any); ok {
			if data, exists := received["received_data"]; exists {
				details["receivedData"] = data
			}
		}
		out.Details = details
	}
	return out
}
