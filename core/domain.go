package core

import (
	"fmt"
	"strings"
	"time"
)

type OperationKind string

const (
	OperationCreateLink          OperationKind = "create_link"
	OperationResolveLink         OperationKind = "resolve_link"
	OperationEndSession          OperationKind = "end_session"
	OperationHandleDeepLink      OperationKind = "handle_deep_link"
	OperationSetInitialURI       OperationKind = "set_initial_uri"
	OperationGetInitialURI       OperationKind = "get_initial_uri"
	OperationGetInitialDeepLink  OperationKind = "get_initial_deep_link"
	OperationGetLastLinkData     OperationKind = "get_last_link_data"
	OperationGetCurrentSessionID OperationKind = "get_current_session_id"
	OperationHasActiveSession    OperationKind = "has_active_session"
	OperationGetSessionState     OperationKind = "get_session_state"
	OperationGetInstallationID   OperationKind = "get_installation_id"
	OperationGetInstallationInfo OperationKind = "get_installation_info"
	OperationIsReinstall         OperationKind = "is_reinstall"
	OperationCheckDeferredLink   OperationKind = "check_deferred_link"

	// OperationGetBridgeState reports the gate state and never waits for it.
	OperationGetBridgeState OperationKind = "get_bridge_state"
)

var knownOperations = map[OperationKind]struct{}{
	OperationCreateLink:          {},
	OperationResolveLink:         {},
	OperationEndSession:          {},
	OperationHandleDeepLink:      {},
	OperationSetInitialURI:       {},
	OperationGetInitialURI:       {},
	OperationGetInitialDeepLink:  {},
	OperationGetLastLinkData:     {},
	OperationGetCurrentSessionID: {},
	OperationHasActiveSession:    {},
	OperationGetSessionState:     {},
	OperationGetInstallationID:   {},
	OperationGetInstallationInfo: {},
	OperationIsReinstall:         {},
	OperationCheckDeferredLink:   {},
	OperationGetBridgeState:      {},
}

func (k OperationKind) Known() bool {
	_, ok := knownOperations[k]
	return ok
}

func NormalizeOperationKind(value string) OperationKind {
	return OperationKind(strings.TrimSpace(strings.ToLower(value)))
}

// DefaultRequiresReadiness gates every operation that reaches the backend.
func DefaultRequiresReadiness(kind OperationKind) bool {
	if !kind.Known() {
		return false
	}
	return kind != OperationGetBridgeState
}

type LinkType string

const (
	LinkTypeDynamic LinkType = "dynamic"
	LinkTypeUnified LinkType = "unified"
)

func NormalizeLinkType(value string) (LinkType, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", string(LinkTypeUnified):
		return LinkTypeUnified, nil
	case string(LinkTypeDynamic):
		return LinkTypeDynamic, nil
	default:
		return "", fmt.Errorf("core: invalid link type %q", value)
	}
}

type SocialMediaTags struct {
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
}

func (t *SocialMediaTags) Empty() bool {
	return t == nil || (strings.TrimSpace(t.OGTitle) == "" &&
		strings.TrimSpace(t.OGDescription) == "" &&
		strings.TrimSpace(t.OGImage) == "")
}

type LinkParameters struct {
	Type               LinkType          `json:"type"`
	Domain             string            `json:"domain"`
	Slug               string            `json:"slug,omitempty"`
	IOSURL             string            `json:"ios_url,omitempty"`
	AndroidURL         string            `json:"android_url,omitempty"`
	IOSFallbackURL     string            `json:"ios_fallback_url,omitempty"`
	AndroidFallbackURL string            `json:"android_fallback_url,omitempty"`
	FallbackURL        string            `json:"fallback_url,omitempty"`
	Parameters         map[string]string `json:"parameters,omitempty"`
	SocialMediaTags    *SocialMediaTags  `json:"social_media_tags,omitempty"`
	Metadata           map[string]any    `json:"metadata,omitempty"`
}

func (p LinkParameters) Validate() error {
	if strings.TrimSpace(p.Domain) == "" {
		return fmt.Errorf("core: link domain is required")
	}
	if _, err := NormalizeLinkType(string(p.Type)); err != nil {
		return err
	}
	return nil
}

// Normalized returns a copy with the link type defaulted and maps detached
// from the caller.
func (p LinkParameters) Normalized() LinkParameters {
	out := p
	if linkType, err := NormalizeLinkType(string(p.Type)); err == nil {
		out.Type = linkType
	}
	out.Domain = strings.TrimSpace(p.Domain)
	out.Slug = strings.TrimSpace(p.Slug)
	out.Parameters = copyStringMap(p.Parameters)
	out.Metadata = copyAnyMap(p.Metadata)
	if p.SocialMediaTags != nil {
		tags := *p.SocialMediaTags
		out.SocialMediaTags = &tags
	}
	return out
}

type LinkResponse struct {
	Success bool           `json:"success"`
	URL     string         `json:"url,omitempty"`
	Error   string         `json:"error,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

type ResolvedLink struct {
	Slug               string           `json:"slug,omitempty"`
	IOSURL             string           `json:"ios_url,omitempty"`
	AndroidURL         string           `json:"android_url,omitempty"`
	IOSFallbackURL     string           `json:"ios_fallback_url,omitempty"`
	AndroidFallbackURL string           `json:"android_fallback_url,omitempty"`
	FallbackURL        string           `json:"fallback_url,omitempty"`
	Parameters         map[string]any   `json:"parameters,omitempty"`
	SocialMediaTags    *SocialMediaTags `json:"social_media_tags,omitempty"`
	Metadata           map[string]any   `json:"metadata,omitempty"`
	Type               LinkType         `json:"type,omitempty"`
	IsDeferred         bool             `json:"is_deferred"`
	MatchType          string           `json:"match_type,omitempty"`
	ResolvedAt         *time.Time       `json:"resolved_at,omitempty"`
	RawData            map[string]any   `json:"raw_data,omitempty"`
}

// HasContent reports whether the link carries anything a host can route on.
// Links without slug, parameters, urls or metadata are delivered as errors.
func (l ResolvedLink) HasContent() bool {
	for _, value := range []string{l.Slug, l.IOSURL, l.AndroidURL, l.FallbackURL} {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return len(l.Parameters) > 0 || len(l.Metadata) > 0
}

type SessionState string

const (
	SessionStateIdle         SessionState = "idle"
	SessionStateInitializing SessionState = "initializing"
	SessionStateActive       SessionState = "active"
	SessionStateEnding       SessionState = "ending"
	SessionStateFailed       SessionState = "failed"
)

type InstallationInfo struct {
	InstallationID         string     `json:"installation_id"`
	IsReinstall            bool       `json:"is_reinstall"`
	PreviousInstallationID string     `json:"previous_installation_id,omitempty"`
	ReinstallDetectedAt    *time.Time `json:"reinstall_detected_at,omitempty"`
	PersistentDeviceID     string     `json:"persistent_device_id,omitempty"`
}

type LogEntry struct {
	Level     string `json:"level"`
	Tag       string `json:"tag"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type URLSource string

const (
	URLSourceUniversalLink URLSource = "universal_link"
	URLSourceURLScheme     URLSource = "url_scheme"
	URLSourceLaunchIntent  URLSource = "launch_intent"
)

type URLDelivery struct {
	URL        string
	Source     URLSource
	ReceivedAt time.Time
}

func copyAnyMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}

func copyStringMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
