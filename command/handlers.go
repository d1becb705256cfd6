package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-linkbridge/core"
)

type MutatingBridge interface {
	Initialize(ctx context.Context, cfg core.SDKConfig) error
	CreateLink(ctx context.Context, params core.LinkParameters) (core.LinkResponse, error)
	ResolveLink(ctx context.Context, url string) (core.LinkResponse, error)
	EndSession(ctx context.Context) (bool, error)
	HandleDeepLink(ctx context.Context, url string) error
	SetInitialURI(ctx context.Context, url *string) error
	CheckDeferredLink(ctx context.Context) error
	ReceiveURL(ctx context.Context, delivery core.URLDelivery) bool
	Dispose()
}

type InitializeCommand struct {
	bridge MutatingBridge
}

func NewInitializeCommand(bridge MutatingBridge) *InitializeCommand {
	return &InitializeCommand{bridge: bridge}
}

func (c *InitializeCommand) Execute(ctx context.Context, msg InitializeMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("initialize")
	}
	return c.bridge.Initialize(ctx, msg.Config)
}

type CreateLinkCommand struct {
	bridge MutatingBridge
}

func NewCreateLinkCommand(bridge MutatingBridge) *CreateLinkCommand {
	return &CreateLinkCommand{bridge: bridge}
}

func (c *CreateLinkCommand) Execute(ctx context.Context, msg CreateLinkMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("create link")
	}
	out, err := c.bridge.CreateLink(ctx, msg.Parameters)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type ResolveLinkCommand struct {
	bridge MutatingBridge
}

func NewResolveLinkCommand(bridge MutatingBridge) *ResolveLinkCommand {
	return &ResolveLinkCommand{bridge: bridge}
}

func (c *ResolveLinkCommand) Execute(ctx context.Context, msg ResolveLinkMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("resolve link")
	}
	out, err := c.bridge.ResolveLink(ctx, msg.URL)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type EndSessionCommand struct {
	bridge MutatingBridge
}

func NewEndSessionCommand(bridge MutatingBridge) *EndSessionCommand {
	return &EndSessionCommand{bridge: bridge}
}

func (c *EndSessionCommand) Execute(ctx context.Context, _ EndSessionMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("end session")
	}
	ended, err := c.bridge.EndSession(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, ended)
	return nil
}

type HandleDeepLinkCommand struct {
	bridge MutatingBridge
}

func NewHandleDeepLinkCommand(bridge MutatingBridge) *HandleDeepLinkCommand {
	return &HandleDeepLinkCommand{bridge: bridge}
}

func (c *HandleDeepLinkCommand) Execute(ctx context.Context, msg HandleDeepLinkMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("deep link")
	}
	return c.bridge.HandleDeepLink(ctx, msg.URL)
}

type SetInitialURICommand struct {
	bridge MutatingBridge
}

func NewSetInitialURICommand(bridge MutatingBridge) *SetInitialURICommand {
	return &SetInitialURICommand{bridge: bridge}
}

func (c *SetInitialURICommand) Execute(ctx context.Context, msg SetInitialURIMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("initial uri")
	}
	return c.bridge.SetInitialURI(ctx, msg.URL)
}

type CheckDeferredLinkCommand struct {
	bridge MutatingBridge
}

func NewCheckDeferredLinkCommand(bridge MutatingBridge) *CheckDeferredLinkCommand {
	return &CheckDeferredLinkCommand{bridge: bridge}
}

func (c *CheckDeferredLinkCommand) Execute(ctx context.Context, _ CheckDeferredLinkMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("deferred link")
	}
	return c.bridge.CheckDeferredLink(ctx)
}

// ReceiveURLCommand stores whether the url was accepted; suppressed
// duplicates and rejected urls are not errors.
type ReceiveURLCommand struct {
	bridge MutatingBridge
}

func NewReceiveURLCommand(bridge MutatingBridge) *ReceiveURLCommand {
	return &ReceiveURLCommand{bridge: bridge}
}

func (c *ReceiveURLCommand) Execute(ctx context.Context, msg ReceiveURLMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("receive url")
	}
	storeResult(ctx, c.bridge.ReceiveURL(ctx, msg.Delivery))
	return nil
}

type DisposeCommand struct {
	bridge MutatingBridge
}

func NewDisposeCommand(bridge MutatingBridge) *DisposeCommand {
	return &DisposeCommand{bridge: bridge}
}

func (c *DisposeCommand) Execute(_ context.Context, _ DisposeMessage) error {
	if c == nil || c.bridge == nil {
		return missingBridgeError("dispose")
	}
	c.bridge.Dispose()
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
