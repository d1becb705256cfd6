package core

import (
	"errors"
	"testing"
	"time"
)

func TestEventFilter_NormalizedClampsPaging(t *testing.T) {
	got := EventFilter{}.Normalized()
	if got.Page != 1 || got.PerPage != DefaultJournalPerPage {
		t.Fatalf("unexpected defaults %#v", got)
	}
	got = EventFilter{Page: 3, PerPage: 10_000}.Normalized()
	if got.Page != 3 || got.PerPage != MaxJournalPerPage {
		t.Fatalf("expected per page clamp, got %#v", got)
	}
}

func TestEventFilter_Validate(t *testing.T) {
	from := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	if err := (EventFilter{Channel: ChannelLogs, From: &from, To: &to}).Validate(); err != nil {
		t.Fatalf("expected valid filter, got %v", err)
	}
	if err := (EventFilter{Channel: "push"}).Validate(); !hasTextCode(err, BridgeErrorBadInput) {
		t.Fatalf("expected bad input for unknown channel, got %v", err)
	}
	if err := (EventFilter{From: &to, To: &from}).Validate(); !hasTextCode(err, BridgeErrorBadInput) {
		t.Fatalf("expected bad input for inverted range, got %v", err)
	}
}

func TestRecordFromEvent(t *testing.T) {
	emitted := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	link := RecordFromEvent(Event{
		ID:        "evt_1",
		Channel:   ChannelUnifiedLinks,
		Link:      &ResolvedLink{Slug: "promo", FallbackURL: "https://x.ly/fallback"},
		EmittedAt: emitted,
	})
	if link.Slug != "promo" || link.URL != "https://x.ly/fallback" || link.Payload["link"] == nil {
		t.Fatalf("unexpected link record %#v", link)
	}
	if !link.EmittedAt.Equal(emitted) || link.ID != "evt_1" {
		t.Fatalf("expected identity to carry over, got %#v", link)
	}

	failed := RecordFromEvent(Event{Channel: ChannelDynamicLinks, Err: NotReadyError(OperationHandleDeepLink)})
	if failed.ErrorCode != BridgeErrorNotInitialized || failed.ErrorMessage == "" {
		t.Fatalf("unexpected error record %#v", failed)
	}

	plain := RecordFromEvent(Event{Channel: ChannelLogs, Err: errors.New("something odd")})
	if plain.ErrorCode == "" {
		t.Fatalf("expected plain errors to be categorized")
	}

	logRecord := RecordFromEvent(Event{Channel: ChannelLogs, Log: &LogEntry{Message: "hello"}})
	if _, ok := logRecord.Payload["log"]; !ok {
		t.Fatalf("expected log payload, got %#v", logRecord.Payload)
	}
}
