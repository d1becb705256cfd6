package linkbridge

import (
	"fmt"

	linkcommand "github.com/goliatone/go-linkbridge/command"
	"github.com/goliatone/go-linkbridge/core"
	linkquery "github.com/goliatone/go-linkbridge/query"
)

type CommandQueryBridge interface {
	linkcommand.MutatingBridge
	linkquery.BridgeReader
}

type Commands struct {
	Initialize        *linkcommand.InitializeCommand
	CreateLink        *linkcommand.CreateLinkCommand
	ResolveLink       *linkcommand.ResolveLinkCommand
	EndSession        *linkcommand.EndSessionCommand
	HandleDeepLink    *linkcommand.HandleDeepLinkCommand
	SetInitialURI     *linkcommand.SetInitialURICommand
	CheckDeferredLink *linkcommand.CheckDeferredLinkCommand
	ReceiveURL        *linkcommand.ReceiveURLCommand
	Dispose           *linkcommand.DisposeCommand
}

type Queries struct {
	InitialURI       *linkquery.InitialURIQuery
	InitialDeepLink  *linkquery.InitialDeepLinkQuery
	LastLinkData     *linkquery.LastLinkDataQuery
	CurrentSessionID *linkquery.CurrentSessionIDQuery
	HasActiveSession *linkquery.HasActiveSessionQuery
	SessionState     *linkquery.SessionStateQuery
	InstallationID   *linkquery.InstallationIDQuery
	InstallationInfo *linkquery.InstallationInfoQuery
	IsReinstall      *linkquery.IsReinstallQuery
	BridgeState      *linkquery.BridgeStateQuery
	ListEvents       *linkquery.ListEventsQuery
	LatestEvent      *linkquery.LatestEventQuery
}

type Facade struct {
	bridge   CommandQueryBridge
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	journal core.EventJournalReader
}

// WithEventJournal wires the journal queries. Without it ListEvents and
// LatestEvent are nil.
func WithEventJournal(journal core.EventJournalReader) FacadeOption {
	return func(options *facadeOptions) {
		options.journal = journal
	}
}

func NewFacade(bridge CommandQueryBridge, opts ...FacadeOption) (*Facade, error) {
	if bridge == nil {
		return nil, fmt.Errorf("linkbridge: command/query bridge is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	journal := cfg.journal
	if journal == nil {
		journal = resolveJournal(bridge)
	}

	facade := &Facade{bridge: bridge}
	facade.commands = Commands{
		Initialize:        linkcommand.NewInitializeCommand(bridge),
		CreateLink:        linkcommand.NewCreateLinkCommand(bridge),
		ResolveLink:       linkcommand.NewResolveLinkCommand(bridge),
		EndSession:        linkcommand.NewEndSessionCommand(bridge),
		HandleDeepLink:    linkcommand.NewHandleDeepLinkCommand(bridge),
		SetInitialURI:     linkcommand.NewSetInitialURICommand(bridge),
		CheckDeferredLink: linkcommand.NewCheckDeferredLinkCommand(bridge),
		ReceiveURL:        linkcommand.NewReceiveURLCommand(bridge),
		Dispose:           linkcommand.NewDisposeCommand(bridge),
	}
	facade.queries = Queries{
		InitialURI:       linkquery.NewInitialURIQuery(bridge),
		InitialDeepLink:  linkquery.NewInitialDeepLinkQuery(bridge),
		LastLinkData:     linkquery.NewLastLinkDataQuery(bridge),
		CurrentSessionID: linkquery.NewCurrentSessionIDQuery(bridge),
		HasActiveSession: linkquery.NewHasActiveSessionQuery(bridge),
		SessionState:     linkquery.NewSessionStateQuery(bridge),
		InstallationID:   linkquery.NewInstallationIDQuery(bridge),
		InstallationInfo: linkquery.NewInstallationInfoQuery(bridge),
		IsReinstall:      linkquery.NewIsReinstallQuery(bridge),
		BridgeState:      linkquery.NewBridgeStateQuery(bridge),
	}
	if journal != nil {
		facade.queries.ListEvents = linkquery.NewListEventsQuery(journal)
		facade.queries.LatestEvent = linkquery.NewLatestEventQuery(journal)
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Bridge() CommandQueryBridge {
	if f == nil {
		return nil
	}
	return f.bridge
}

// resolveJournal picks up a journal exposed by the bridge itself, if any.
func resolveJournal(bridge CommandQueryBridge) core.EventJournalReader {
	if reader, ok := bridge.(core.EventJournalReader); ok {
		return reader
	}
	provider, ok := bridge.(interface {
		EventJournal() core.EventJournalReader
	})
	if !ok {
		return nil
	}
	return provider.EventJournal()
}

var _ CommandQueryBridge = (*core.Bridge)(nil)
