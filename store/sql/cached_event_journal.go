package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-linkbridge/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const latestEventCacheKeyPrefix = "go-linkbridge::latest_event::v1"

type EventJournalStore interface {
	core.EventJournalReader
	Record(ctx context.Context, entry core.EventRecord) error
}

// CachedEventJournal caches the newest event per channel and drops the
// cached entry whenever that channel records a new event.
type CachedEventJournal struct {
	base  EventJournalStore
	cache repositorycache.CacheService
}

func NewCachedEventJournal(
	base EventJournalStore,
	cacheService repositorycache.CacheService,
) (*CachedEventJournal, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base event journal is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: event journal cache service is required")
	}
	return &CachedEventJournal{base: base, cache: cacheService}, nil
}

// LatestEventCacheKey returns go-linkbridge::latest_event::v1::<channel>
// with the channel URL-path escaped.
func LatestEventCacheKey(channel core.EventChannel) (string, error) {
	normalized := core.EventChannel(strings.TrimSpace(strings.ToLower(string(channel))))
	if !normalized.Known() {
		return "", fmt.Errorf("sqlstore: unknown event channel %q", channel)
	}
	return latestEventCacheKeyPrefix + "::" + url.PathEscape(string(normalized)), nil
}

func (c *CachedEventJournal) Name() string { return eventJournalListenerName + ".cached" }

func (c *CachedEventJournal) OnEvent(ctx context.Context, event core.Event) error {
	return c.Record(ctx, core.RecordFromEvent(event))
}

func (c *CachedEventJournal) Record(ctx context.Context, entry core.EventRecord) error {
	if c == nil || c.base == nil || c.cache == nil {
		return fmt.Errorf("sqlstore: cached event journal is not configured")
	}
	cacheKey, err := LatestEventCacheKey(entry.Channel)
	if err != nil {
		return err
	}
	if err := c.base.Record(ctx, entry); err != nil {
		return err
	}
	return c.cache.Delete(ctx, cacheKey)
}

func (c *CachedEventJournal) List(ctx context.Context, filter core.EventFilter) (core.EventPage, error) {
	if c == nil || c.base == nil {
		return core.EventPage{}, fmt.Errorf("sqlstore: cached event journal is not configured")
	}
	return c.base.List(ctx, filter)
}

func (c *CachedEventJournal) Latest(ctx context.Context, channel core.EventChannel) (core.EventRecord, error) {
	if c == nil || c.base == nil || c.cache == nil {
		return core.EventRecord{}, fmt.Errorf("sqlstore: cached event journal is not configured")
	}
	cacheKey, err := LatestEventCacheKey(channel)
	if err != nil {
		return core.EventRecord{}, err
	}
	record, err := repositorycache.GetOrFetch(ctx, c.cache, cacheKey, func(ctx context.Context) (core.EventRecord, error) {
		return c.base.Latest(ctx, channel)
	})
	if err != nil {
		return core.EventRecord{}, err
	}
	record.Payload = copyAnyMap(record.Payload)
	return record, nil
}
