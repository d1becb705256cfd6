package core

import "context"

// Typed wrappers over Submit. Each blocks until the call resolves or ctx
// ends, so a call queued before initialization waits for replay.

func (b *Bridge) CreateLink(ctx context.Context, params LinkParameters) (LinkResponse, error) {
	return Await[LinkResponse](ctx, b.Submit(ctx, CreateLinkPayload{Parameters: params}))
}

func (b *Bridge) ResolveLink(ctx context.Context, url string) (LinkResponse, error) {
	return Await[LinkResponse](ctx, b.Submit(ctx, ResolveLinkPayload{URL: url}))
}

func (b *Bridge) EndSession(ctx context.Context) (bool, error) {
	return Await[bool](ctx, b.Submit(ctx, Accessor(OperationEndSession)))
}

// HandleDeepLink hands url to the backend directly; it is not subject to
// duplicate suppression.
func (b *Bridge) HandleDeepLink(ctx context.Context, url string) error {
	_, err := b.Submit(ctx, HandleDeepLinkPayload{URL: url}).Wait(ctx)
	return err
}

func (b *Bridge) SetInitialURI(ctx context.Context, url *string) error {
	_, err := b.Submit(ctx, SetInitialURIPayload{URL: url}).Wait(ctx)
	return err
}

func (b *Bridge) InitialURI(ctx context.Context) (*string, error) {
	return Await[*string](ctx, b.Submit(ctx, Accessor(OperationGetInitialURI)))
}

func (b *Bridge) InitialDeepLink(ctx context.Context) (*ResolvedLink, error) {
	return Await[*ResolvedLink](ctx, b.Submit(ctx, Accessor(OperationGetInitialDeepLink)))
}

func (b *Bridge) LastLinkData(ctx context.Context) (*ResolvedLink, error) {
	return Await[*ResolvedLink](ctx, b.Submit(ctx, Accessor(OperationGetLastLinkData)))
}

func (b *Bridge) CurrentSessionID(ctx context.Context) (string, error) {
	return Await[string](ctx, b.Submit(ctx, Accessor(OperationGetCurrentSessionID)))
}

func (b *Bridge) HasActiveSession(ctx context.Context) (bool, error) {
	return Await[bool](ctx, b.Submit(ctx, Accessor(OperationHasActiveSession)))
}

func (b *Bridge) SessionState(ctx context.Context) (SessionState, error) {
	return Await[SessionState](ctx, b.Submit(ctx, Accessor(OperationGetSessionState)))
}

func (b *Bridge) InstallationID(ctx context.Context) (string, error) {
	return Await[string](ctx, b.Submit(ctx, Accessor(OperationGetInstallationID)))
}

func (b *Bridge) InstallationInfo(ctx context.Context) (*InstallationInfo, error) {
	return Await[*InstallationInfo](ctx, b.Submit(ctx, Accessor(OperationGetInstallationInfo)))
}

func (b *Bridge) IsReinstall(ctx context.Context) (bool, error) {
	return Await[bool](ctx, b.Submit(ctx, Accessor(OperationIsReinstall)))
}

func (b *Bridge) CheckDeferredLink(ctx context.Context) error {
	_, err := b.Submit(ctx, Accessor(OperationCheckDeferredLink)).Wait(ctx)
	return err
}
