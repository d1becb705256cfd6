package channel

import (
	"time"

	"github.com/goliatone/go-linkbridge/core"
)

func ResponseToMap(response core.LinkResponse) map[string]any {
	return map[string]any{
		"success": response.Success,
		"url":     nilIfEmpty(response.URL),
		"error":   nilIfEmpty(response.Error),
		"data":    response.Data,
	}
}

// LinkToMap renders a resolved link with resolvedAt in unix seconds.
func LinkToMap(link *core.ResolvedLink) map[string]any {
	if link == nil {
		return nil
	}
	var tags map[string]any
	if link.SocialMediaTags != nil {
		tags = map[string]any{
			"title":       nilIfEmpty(link.SocialMediaTags.OGTitle),
			"description": nilIfEmpty(link.SocialMediaTags.OGDescription),
			"imageUrl":    nilIfEmpty(link.SocialMediaTags.OGImage),
		}
	}
	var resolvedAt any
	if link.ResolvedAt != nil {
		resolvedAt = float64(link.ResolvedAt.UnixMilli()) / 1000
	}
	return map[string]any{
		"slug":               nilIfEmpty(link.Slug),
		"iosUrl":             nilIfEmpty(link.IOSURL),
		"androidUrl":         nilIfEmpty(link.AndroidURL),
		"iosFallbackUrl":     nilIfEmpty(link.IOSFallbackURL),
		"androidFallbackUrl": nilIfEmpty(link.AndroidFallbackURL),
		"fallbackUrl":        nilIfEmpty(link.FallbackURL),
		"parameters":         link.Parameters,
		"socialMediaTags":    tags,
		"metadata":           link.Metadata,
		"type":               nilIfEmpty(string(link.Type)),
		"isDeferred":         link.IsDeferred,
		"matchType":          nilIfEmpty(link.MatchType),
		"resolvedAt":         resolvedAt,
	}
}

func InstallationToMap(info *core.InstallationInfo) map[string]any {
	if info == nil {
		return nil
	}
	return map[string]any{
		"installationId":         info.InstallationID,
		"isReinstall":            info.IsReinstall,
		"previousInstallationId": nilIfEmpty(info.PreviousInstallationID),
		"reinstallDetectedAt":    timeOrNil(info.ReinstallDetectedAt),
		"persistentDeviceId":     nilIfEmpty(info.PersistentDeviceID),
	}
}

func LogToMap(entry *core.LogEntry) map[string]any {
	if entry == nil {
		return nil
	}
	return map[string]any{
		"level":     entry.Level,
		"tag":       entry.Tag,
		"message":   entry.Message,
		"timestamp": entry.Timestamp,
	}
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func timeOrNil(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339)
}
