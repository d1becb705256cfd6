package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Backend initializes the vendor SDK. The returned Session is owned by the
// bridge until Dispose.
type Backend interface {
	Initialize(ctx context.Context, cfg SDKConfig) (Session, error)
}

type Session interface {
	CreateLink(ctx context.Context, params LinkParameters) (LinkResponse, error)
	ResolveLink(ctx context.Context, url string) (LinkResponse, error)
	EndSession(ctx context.Context) (bool, error)
	// HandleDeepLink hands the url to the SDK; results arrive on the streams.
	HandleDeepLink(ctx context.Context, url string)
	SetInitialURI(url *string)
	InitialURI() *string
	InitialDeepLink(ctx context.Context) (*ResolvedLink, error)
	LastLinkData() (*ResolvedLink, error)
	CurrentSessionID() string
	HasActiveSession() bool
	SessionState() SessionState
	InstallationID() string
	InstallationInfo() *InstallationInfo
	IsReinstall() bool
	CheckDeferredLink(ctx context.Context) error
	Streams() SessionStreams
	Dispose()
}

// SessionStreams exposes the SDK push channels. Nil channels are skipped.
type SessionStreams struct {
	DynamicLinks <-chan ResolvedLink
	UnifiedLinks <-chan ResolvedLink
	Logs         <-chan LogEntry
	Reinstalls   <-chan InstallationInfo
}

// BackendError lets a backend expose its vendor error code so the bridge
// can categorize the failure without parsing messages.
type BackendError interface {
	error
	VendorCode() string
}

// URLReceiver is invoked by the host platform for urls delivered by the OS
// (universal links, custom schemes, launch intents).
type URLReceiver interface {
	ReceiveURL(ctx context.Context, delivery URLDelivery) bool
}

type EventChannel string

const (
	ChannelDynamicLinks      EventChannel = "dynamic_links"
	ChannelUnifiedLinks      EventChannel = "unified_links"
	ChannelLogs              EventChannel = "logs"
	ChannelReinstallDetected EventChannel = "reinstall_detected"
)

func EventChannels() []EventChannel {
	return []EventChannel{
		ChannelDynamicLinks,
		ChannelUnifiedLinks,
		ChannelLogs,
		ChannelReinstallDetected,
	}
}

type Event struct {
	ID           string
	Channel      EventChannel
	Link         *ResolvedLink
	Log          *LogEntry
	Installation *InstallationInfo
	Err          error
	EmittedAt    time.Time
}

type EventListener interface {
	Name() string
	OnEvent(ctx context.Context, event Event) error
}

type EventListenerFunc struct {
	ID string
	Fn func(ctx context.Context, event Event) error
}

func (f EventListenerFunc) Name() string { return f.ID }

func (f EventListenerFunc) OnEvent(ctx context.Context, event Event) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(ctx, event)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
