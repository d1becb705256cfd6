package channel

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goliatone/go-linkbridge/core"
)

// ParseSDKConfig reads the initialize "config" map. lastLinkTimeToLive
// arrives in milliseconds.
func ParseSDKConfig(values map[string]any) (core.SDKConfig, error) {
	cfg := core.DefaultSDKConfig()
	apiKey, ok := values["apiKey"].(string)
	if !ok {
		return core.SDKConfig{}, errors.New("api key is required")
	}
	cfg.APIKey = apiKey
	if baseURL, ok := values["baseUrl"].(string); ok {
		cfg.BaseURL = baseURL
	}
	if debug, ok := values["debug"].(bool); ok {
		cfg.Debug = debug
	}
	if enabled, ok := values["enableDeepLinkIntegration"].(bool); ok {
		cfg.DisableDeepLinkIntegration = !enabled
	}
	if persist, ok := values["persistLastLinkData"].(bool); ok {
		cfg.PersistLastLinkData = persist
	}
	if raw, exists := values["lastLinkTimeToLive"]; exists && raw != nil {
		millis, ok := int64Arg(raw)
		if !ok {
			return core.SDKConfig{}, fmt.Errorf("lastLinkTimeToLive must be an integer number of milliseconds")
		}
		cfg.LastLinkTimeToLive = time.Duration(millis) * time.Millisecond
	}
	if clear, ok := values["clearLastLinkOnRead"].(bool); ok {
		cfg.KeepLastLinkOnRead = !clear
	}
	if redactAll, ok := values["redactAllParametersInLastLink"].(bool); ok {
		cfg.RedactAllParametersInLastLink = redactAll
	}
	if raw, exists := values["redactedParameterKeysInLastLink"]; exists && raw != nil {
		keys, ok := stringSliceArg(raw)
		if !ok {
			return core.SDKConfig{}, fmt.Errorf("redactedParameterKeysInLastLink must be a list of strings")
		}
		cfg.RedactedParameterKeysInLastLink = keys
	}
	return cfg, nil
}

// ParseLinkParameters reads the createLink "parameters" map.
func ParseLinkParameters(values map[string]any) (core.LinkParameters, error) {
	linkType, ok := values["type"].(string)
	if !ok {
		return core.LinkParameters{}, errors.New("link type is required")
	}
	domain, ok := values["domain"].(string)
	if !ok {
		return core.LinkParameters{}, errors.New("link domain is required")
	}
	normalized, err := core.NormalizeLinkType(linkType)
	if err != nil {
		return core.LinkParameters{}, err
	}

	params := core.LinkParameters{
		Type:               normalized,
		Domain:             domain,
		Slug:               stringArg(values, "slug"),
		IOSURL:             stringArg(values, "iosUrl"),
		AndroidURL:         stringArg(values, "androidUrl"),
		IOSFallbackURL:     stringArg(values, "iosFallbackUrl"),
		AndroidFallbackURL: stringArg(values, "androidFallbackUrl"),
		FallbackURL:        stringArg(values, "fallbackUrl"),
	}
	if raw, exists := values["parameters"]; exists && raw != nil {
		extra, ok := stringMapArg(raw)
		if !ok {
			return core.LinkParameters{}, errors.New("parameters must be a map of strings")
		}
		params.Parameters = extra
	}
	if metadata, ok := values["metadata"].(map[string]any); ok {
		params.Metadata = copyMap(metadata)
	}
	if tags, ok := values["socialMediaTags"].(map[string]any); ok {
		params.SocialMediaTags = &core.SocialMediaTags{
			OGTitle:       stringArg(tags, "ogTitle"),
			OGDescription: stringArg(tags, "ogDescription"),
			OGImage:       stringArg(tags, "ogImage"),
		}
	}
	return params, nil
}

func stringArg(values map[string]any, key string) string {
	value, _ := values[key].(string)
	return strings.TrimSpace(value)
}

func int64Arg(raw any) (int64, bool) {
	switch typed := raw.(type) {
	case int:
		return int64(typed), true
	case int32:
		return int64(typed), true
	case int64:
		return typed, true
	case float64:
		if typed != math.Trunc(typed) {
			return 0, false
		}
		return int64(typed), true
	default:
		return 0, false
	}
}

func stringSliceArg(raw any) ([]string, bool) {
	switch typed := raw.(type) {
	case []string:
		return append([]string(nil), typed...), true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			value, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, value)
		}
		return out, true
	default:
		return nil, false
	}
}

func stringMapArg(raw any) (map[string]string, bool) {
	switch typed := raw.(type) {
	case map[string]string:
		out := make(map[string]string, len(typed))
		for key, value := range typed {
			out[key] = value
		}
		return out, true
	case map[string]any:
		out := make(map[string]string, len(typed))
		for key, value := range typed {
			text, ok := value.(string)
			if !ok {
				return nil, false
			}
			out[key] = text
		}
		return out, true
	default:
		return nil, false
	}
}
