package linkbridge

import "github.com/goliatone/go-linkbridge/core"

type Config = core.Config

type SDKConfig = core.SDKConfig

type Option = core.Option

type Bridge = core.Bridge

type Backend = core.Backend
type Session = core.Session
type SessionStreams = core.SessionStreams
type EventListener = core.EventListener
type Event = core.Event
type EventChannel = core.EventChannel
type URLDelivery = core.URLDelivery
type InitState = core.InitState

type LinkParameters = core.LinkParameters
type LinkResponse = core.LinkResponse
type ResolvedLink = core.ResolvedLink
type InstallationInfo = core.InstallationInfo

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithReadinessPolicy = core.WithReadinessPolicy
	WithEventListener   = core.WithEventListener
	WithClock           = core.WithClock
	WithIDGenerator     = core.WithIDGenerator
	WithConfig          = core.WithConfig
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func DefaultSDKConfig() SDKConfig {
	return core.DefaultSDKConfig()
}

func NewBridge(backend Backend, opts ...Option) (*Bridge, error) {
	return core.NewBridge(backend, opts...)
}
