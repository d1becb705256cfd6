package query

import (
	"github.com/goliatone/go-linkbridge/core"
)

const (
	TypeInitialURI       = "linkbridge.query.initial_uri"
	TypeInitialDeepLink  = "linkbridge.query.initial_deep_link"
	TypeLastLinkData     = "linkbridge.query.last_link_data"
	TypeCurrentSessionID = "linkbridge.query.session.id"
	TypeHasActiveSession = "linkbridge.query.session.active"
	TypeSessionState     = "linkbridge.query.session.state"
	TypeInstallationID   = "linkbridge.query.installation.id"
	TypeInstallationInfo = "linkbridge.query.installation.info"
	TypeIsReinstall      = "linkbridge.query.installation.reinstall"
	TypeBridgeState      = "linkbridge.query.bridge.state"
	TypeListEvents       = "linkbridge.query.events.list"
	TypeLatestEvent      = "linkbridge.query.events.latest"
)

type InitialURIMessage struct{}

func (InitialURIMessage) Type() string    { return TypeInitialURI }
func (InitialURIMessage) Validate() error { return nil }

type InitialDeepLinkMessage struct{}

func (InitialDeepLinkMessage) Type() string    { return TypeInitialDeepLink }
func (InitialDeepLinkMessage) Validate() error { return nil }

type LastLinkDataMessage struct{}

func (LastLinkDataMessage) Type() string    { return TypeLastLinkData }
func (LastLinkDataMessage) Validate() error { return nil }

type CurrentSessionIDMessage struct{}

func (CurrentSessionIDMessage) Type() string    { return TypeCurrentSessionID }
func (CurrentSessionIDMessage) Validate() error { return nil }

type HasActiveSessionMessage struct{}

func (HasActiveSessionMessage) Type() string    { return TypeHasActiveSession }
func (HasActiveSessionMessage) Validate() error { return nil }

type SessionStateMessage struct{}

func (SessionStateMessage) Type() string    { return TypeSessionState }
func (SessionStateMessage) Validate() error { return nil }

type InstallationIDMessage struct{}

func (InstallationIDMessage) Type() string    { return TypeInstallationID }
func (InstallationIDMessage) Validate() error { return nil }

type InstallationInfoMessage struct{}

func (InstallationInfoMessage) Type() string    { return TypeInstallationInfo }
func (InstallationInfoMessage) Validate() error { return nil }

type IsReinstallMessage struct{}

func (IsReinstallMessage) Type() string    { return TypeIsReinstall }
func (IsReinstallMessage) Validate() error { return nil }

// BridgeStateMessage is answered without waiting for initialization.
type BridgeStateMessage struct{}

func (BridgeStateMessage) Type() string    { return TypeBridgeState }
func (BridgeStateMessage) Validate() error { return nil }

type ListEventsMessage struct {
	Filter core.EventFilter
}

func (ListEventsMessage) Type() string { return TypeListEvents }

func (m ListEventsMessage) Validate() error {
	if m.Filter.Page < 0 {
		return invalidParamError("page", "page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return invalidParamError("per_page", "per_page must be >= 0")
	}
	if err := m.Filter.Validate(); err != nil {
		return invalidFilterError(err)
	}
	return nil
}

type LatestEventMessage struct {
	Channel core.EventChannel
}

func (LatestEventMessage) Type() string { return TypeLatestEvent }

func (m LatestEventMessage) Validate() error {
	if m.Channel == "" {
		return invalidParamError("channel", "channel is required")
	}
	if !m.Channel.Known() {
		return invalidParamError("channel", "unknown event channel")
	}
	return nil
}
