package command

import (
	"strings"

	"github.com/goliatone/go-linkbridge/core"
)

const (
	TypeInitialize        = "linkbridge.command.initialize"
	TypeCreateLink        = "linkbridge.command.link.create"
	TypeResolveLink       = "linkbridge.command.link.resolve"
	TypeEndSession        = "linkbridge.command.session.end"
	TypeHandleDeepLink    = "linkbridge.command.deep_link.handle"
	TypeSetInitialURI     = "linkbridge.command.initial_uri.set"
	TypeCheckDeferredLink = "linkbridge.command.deferred_link.check"
	TypeReceiveURL        = "linkbridge.command.url.receive"
	TypeDispose           = "linkbridge.command.dispose"
)

type InitializeMessage struct {
	Config core.SDKConfig
}

func (InitializeMessage) Type() string { return TypeInitialize }

func (m InitializeMessage) Validate() error {
	if strings.TrimSpace(m.Config.APIKey) == "" {
		return invalidFieldError("api_key", "api key is required")
	}
	if err := m.Config.Normalized().Validate(); err != nil {
		return invalidConfigError(err)
	}
	return nil
}

type CreateLinkMessage struct {
	Parameters core.LinkParameters
}

func (CreateLinkMessage) Type() string { return TypeCreateLink }

func (m CreateLinkMessage) Validate() error {
	if strings.TrimSpace(m.Parameters.Domain) == "" {
		return invalidFieldError("domain", "link domain is required")
	}
	if _, err := core.NormalizeLinkType(string(m.Parameters.Type)); err != nil {
		return invalidFieldError("type", "link type must be dynamic or unified")
	}
	return nil
}

type ResolveLinkMessage struct {
	URL string
}

func (ResolveLinkMessage) Type() string { return TypeResolveLink }

func (m ResolveLinkMessage) Validate() error {
	return validateURL("url", m.URL)
}

type EndSessionMessage struct{}

func (EndSessionMessage) Type() string { return TypeEndSession }

func (EndSessionMessage) Validate() error { return nil }

type HandleDeepLinkMessage struct {
	URL string
}

func (HandleDeepLinkMessage) Type() string { return TypeHandleDeepLink }

func (m HandleDeepLinkMessage) Validate() error {
	return validateURL("url", m.URL)
}

// SetInitialURIMessage clears the stored initial uri when URL is nil.
type SetInitialURIMessage struct {
	URL *string
}

func (SetInitialURIMessage) Type() string { return TypeSetInitialURI }

func (m SetInitialURIMessage) Validate() error {
	if m.URL == nil {
		return nil
	}
	return validateURL("url", *m.URL)
}

type CheckDeferredLinkMessage struct{}

func (CheckDeferredLinkMessage) Type() string { return TypeCheckDeferredLink }

func (CheckDeferredLinkMessage) Validate() error { return nil }

type ReceiveURLMessage struct {
	Delivery core.URLDelivery
}

func (ReceiveURLMessage) Type() string { return TypeReceiveURL }

func (m ReceiveURLMessage) Validate() error {
	if err := validateURL("url", m.Delivery.URL); err != nil {
		return err
	}
	switch m.Delivery.Source {
	case "", core.URLSourceUniversalLink, core.URLSourceURLScheme, core.URLSourceLaunchIntent:
		return nil
	default:
		return invalidFieldError("source", "unknown url source")
	}
}

type DisposeMessage struct{}

func (DisposeMessage) Type() string { return TypeDispose }

func (DisposeMessage) Validate() error { return nil }

func validateURL(field string, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return invalidFieldError(field, "url is required")
	}
	if err := core.ValidateLinkURL(raw); err != nil {
		return invalidFieldError(field, err.Error())
	}
	return nil
}
