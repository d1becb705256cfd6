package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-linkbridge/core"
)

var (
	_ gocmd.Querier[InitialURIMessage, *string]                      = (*InitialURIQuery)(nil)
	_ gocmd.Querier[InitialDeepLinkMessage, *core.ResolvedLink]      = (*InitialDeepLinkQuery)(nil)
	_ gocmd.Querier[LastLinkDataMessage, *core.ResolvedLink]         = (*LastLinkDataQuery)(nil)
	_ gocmd.Querier[CurrentSessionIDMessage, string]                 = (*CurrentSessionIDQuery)(nil)
	_ gocmd.Querier[HasActiveSessionMessage, bool]                   = (*HasActiveSessionQuery)(nil)
	_ gocmd.Querier[SessionStateMessage, core.SessionState]          = (*SessionStateQuery)(nil)
	_ gocmd.Querier[InstallationIDMessage, string]                   = (*InstallationIDQuery)(nil)
	_ gocmd.Querier[InstallationInfoMessage, *core.InstallationInfo] = (*InstallationInfoQuery)(nil)
	_ gocmd.Querier[IsReinstallMessage, bool]                        = (*IsReinstallQuery)(nil)
	_ gocmd.Querier[BridgeStateMessage, core.InitState]              = (*BridgeStateQuery)(nil)
	_ gocmd.Querier[ListEventsMessage, core.EventPage]               = (*ListEventsQuery)(nil)
	_ gocmd.Querier[LatestEventMessage, core.EventRecord]            = (*LatestEventQuery)(nil)

	_ BridgeReader = (*core.Bridge)(nil)
)
