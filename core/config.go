package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL            = "https://api.ulink.ly"
	DefaultLastLinkTimeToLive = 24 * time.Hour
)

type Config struct {
	ServiceName       string `koanf:"service_name" mapstructure:"service_name"`
	DuplicateWindowMS int    `koanf:"duplicate_window_ms" mapstructure:"duplicate_window_ms"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:       "linkbridge",
		DuplicateWindowMS: int(DefaultDuplicateWindow / time.Millisecond),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.DuplicateWindowMS < 0 {
		return fmt.Errorf("core: duplicate_window_ms must be positive")
	}
	return nil
}

func (c Config) DuplicateWindow() time.Duration {
	if c.DuplicateWindowMS <= 0 {
		return DefaultDuplicateWindow
	}
	return time.Duration(c.DuplicateWindowMS) * time.Millisecond
}

// SDKConfig is handed to the backend on Initialize. Its zero value, plus an
// api key, is a working configuration: deep-link integration is on and last
// link data is cleared on read unless a Disable/Keep flag says otherwise.
type SDKConfig struct {
	APIKey                          string
	BaseURL                         string
	Debug                           bool
	DisableDeepLinkIntegration      bool
	PersistLastLinkData             bool
	LastLinkTimeToLive              time.Duration
	KeepLastLinkOnRead              bool
	RedactAllParametersInLastLink   bool
	RedactedParameterKeysInLastLink []string
}

func DefaultSDKConfig() SDKConfig {
	return SDKConfig{
		BaseURL:            DefaultBaseURL,
		LastLinkTimeToLive: DefaultLastLinkTimeToLive,
	}
}

// DeepLinksEnabled reports whether externally delivered urls reach the backend.
func (c SDKConfig) DeepLinksEnabled() bool {
	return !c.DisableDeepLinkIntegration
}

// ClearLastLinkOnRead reports whether reading last link data consumes it.
func (c SDKConfig) ClearLastLinkOnRead() bool {
	return !c.KeepLastLinkOnRead
}

func (c SDKConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("core: api key is required")
	}
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Host == "" {
			return fmt.Errorf("core: invalid base url %q", base)
		}
		if parsed.Scheme != "https" && parsed.Scheme != "http" {
			return fmt.Errorf("core: invalid base url scheme %q", parsed.Scheme)
		}
	}
	if c.LastLinkTimeToLive < 0 {
		return fmt.Errorf("core: last link time to live must not be negative")
	}
	return nil
}

func (c SDKConfig) Normalized() SDKConfig {
	out := c
	out.APIKey = strings.TrimSpace(c.APIKey)
	out.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if out.BaseURL == "" {
		out.BaseURL = DefaultBaseURL
	}
	if out.LastLinkTimeToLive == 0 {
		out.LastLinkTimeToLive = DefaultLastLinkTimeToLive
	}
	keys := make([]string, 0, len(c.RedactedParameterKeysInLastLink))
	for _, key := range c.RedactedParameterKeysInLastLink {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	out.RedactedParameterKeysInLastLink = keys
	return out
}
