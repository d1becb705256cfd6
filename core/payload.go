package core

import (
	"fmt"
	"net/url"
	"strings"
)

// Payload is the validated input of a single bridge operation.
type Payload interface {
	Kind() OperationKind
	Validate() error
}

type CreateLinkPayload struct {
	Parameters LinkParameters
}

func (CreateLinkPayload) Kind() OperationKind { return OperationCreateLink }

func (p CreateLinkPayload) Validate() error {
	return p.Parameters.Validate()
}

type ResolveLinkPayload struct {
	URL string
}

func (ResolveLinkPayload) Kind() OperationKind { return OperationResolveLink }

func (p ResolveLinkPayload) Validate() error {
	return ValidateLinkURL(p.URL)
}

type HandleDeepLinkPayload struct {
	URL string
}

func (HandleDeepLinkPayload) Kind() OperationKind { return OperationHandleDeepLink }

func (p HandleDeepLinkPayload) Validate() error {
	return ValidateLinkURL(p.URL)
}

// SetInitialURIPayload clears the initial uri when URL is nil.
type SetInitialURIPayload struct {
	URL *string
}

func (SetInitialURIPayload) Kind() OperationKind { return OperationSetInitialURI }

func (p SetInitialURIPayload) Validate() error {
	if p.URL == nil {
		return nil
	}
	return ValidateLinkURL(*p.URL)
}

// AccessorPayload carries operations that take no input.
type AccessorPayload struct {
	Operation OperationKind
}

func Accessor(kind OperationKind) AccessorPayload {
	return AccessorPayload{Operation: kind}
}

func (p AccessorPayload) Kind() OperationKind { return p.Operation }

func (p AccessorPayload) Validate() error {
	switch p.Operation {
	case OperationEndSession,
		OperationGetInitialURI,
		OperationGetInitialDeepLink,
		OperationGetLastLinkData,
		OperationGetCurrentSessionID,
		OperationHasActiveSession,
		OperationGetSessionState,
		OperationGetInstallationID,
		OperationGetInstallationInfo,
		OperationIsReinstall,
		OperationCheckDeferredLink,
		OperationGetBridgeState:
		return nil
	case "":
		return fmt.Errorf("core: operation is required")
	default:
		return fmt.Errorf("core: operation %q requires a payload", p.Operation)
	}
}

func ValidateLinkURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("core: url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("core: invalid url %q: %w", raw, err)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("core: invalid url %q: scheme is required", raw)
	}
	if parsed.Host == "" && parsed.Opaque == "" && parsed.Path == "" {
		return fmt.Errorf("core: invalid url %q: host or path is required", raw)
	}
	return nil
}

var (
	_ Payload = CreateLinkPayload{}
	_ Payload = ResolveLinkPayload{}
	_ Payload = HandleDeepLinkPayload{}
	_ Payload = SetInitialURIPayload{}
	_ Payload = AccessorPayload{}
)
