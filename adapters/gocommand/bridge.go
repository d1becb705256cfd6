package gocommand

import (
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	linkcommand "github.com/goliatone/go-linkbridge/command"
	"github.com/goliatone/go-linkbridge/core"
	linkquery "github.com/goliatone/go-linkbridge/query"
)

// BridgeHandlers is what the bridge commands and queries need; *core.Bridge
// satisfies it.
type BridgeHandlers interface {
	linkcommand.MutatingBridge
	linkquery.BridgeReader
}

// Subscriptions collects the dispatcher subscriptions made by RegisterBridge.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// RegisterBridge registers and subscribes every bridge command and query.
// Journal queries are only wired when journal is non-nil. On failure the
// subscriptions made so far are released.
func RegisterBridge(
	adapter *RegistryAdapter,
	bridge BridgeHandlers,
	journal core.EventJournalReader,
	runnerOpts ...runner.Option,
) (Subscriptions, error) {
	if !adapter.configured() {
		return nil, adapterError("gocommand: registry is not configured", ErrorRegistryMissing, nil)
	}
	if bridge == nil {
		return nil, adapterError("gocommand: bridge is required", ErrorMessageContract, nil)
	}

	var subs Subscriptions
	steps := []func() (commanddispatcher.Subscription, error){
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewInitializeCommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewCreateLinkCommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewResolveLinkCommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewEndSessionCommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewHandleDeepLinkCommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewSetInitialURICommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewCheckDeferredLinkCommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewReceiveURLCommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribe(adapter, linkcommand.NewDisposeCommand(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewInitialURIQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewInitialDeepLinkQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewLastLinkDataQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewCurrentSessionIDQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewHasActiveSessionQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewSessionStateQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewInstallationIDQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewInstallationInfoQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewIsReinstallQuery(bridge), runnerOpts...)
		},
		func() (commanddispatcher.Subscription, error) {
			return RegisterAndSubscribeQuery(adapter, linkquery.NewBridgeStateQuery(bridge), runnerOpts...)
		},
	}
	if journal != nil {
		steps = append(steps,
			func() (commanddispatcher.Subscription, error) {
				return RegisterAndSubscribeQuery(adapter, linkquery.NewListEventsQuery(journal), runnerOpts...)
			},
			func() (commanddispatcher.Subscription, error) {
				return RegisterAndSubscribeQuery(adapter, linkquery.NewLatestEventQuery(journal), runnerOpts...)
			},
		)
	}

	for _, step := range steps {
		subscription, err := step()
		if err != nil {
			subs.Unsubscribe()
			return nil, err
		}
		subs = append(subs, subscription)
	}
	return subs, nil
}
