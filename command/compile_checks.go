package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-linkbridge/core"
)

var (
	_ gocmd.Commander[InitializeMessage]        = (*InitializeCommand)(nil)
	_ gocmd.Commander[CreateLinkMessage]        = (*CreateLinkCommand)(nil)
	_ gocmd.Commander[ResolveLinkMessage]       = (*ResolveLinkCommand)(nil)
	_ gocmd.Commander[EndSessionMessage]        = (*EndSessionCommand)(nil)
	_ gocmd.Commander[HandleDeepLinkMessage]    = (*HandleDeepLinkCommand)(nil)
	_ gocmd.Commander[SetInitialURIMessage]     = (*SetInitialURICommand)(nil)
	_ gocmd.Commander[CheckDeferredLinkMessage] = (*CheckDeferredLinkCommand)(nil)
	_ gocmd.Commander[ReceiveURLMessage]        = (*ReceiveURLCommand)(nil)
	_ gocmd.Commander[DisposeMessage]           = (*DisposeCommand)(nil)

	_ MutatingBridge = (*core.Bridge)(nil)
)
