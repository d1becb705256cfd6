package core

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultJournalPerPage = 50
	MaxJournalPerPage     = 500
)

// EventRecord is the persisted form of an emitted Event.
type EventRecord struct {
	ID           string
	Channel      EventChannel
	Slug         string
	URL          string
	ErrorCode    string
	ErrorMessage string
	Payload      map[string]any
	EmittedAt    time.Time
}

type EventFilter struct {
	Channel EventChannel
	Page    int
	PerPage int
	From    *time.Time
	To      *time.Time
}

// Normalized clamps paging and drops an inverted time range.
func (f EventFilter) Normalized() EventFilter {
	out := f
	if out.Page <= 0 {
		out.Page = 1
	}
	if out.PerPage <= 0 {
		out.PerPage = DefaultJournalPerPage
	}
	if out.PerPage > MaxJournalPerPage {
		out.PerPage = MaxJournalPerPage
	}
	return out
}

func (f EventFilter) Validate() error {
	if f.Channel != "" && !f.Channel.Known() {
		return BadInputError("list_events", errors.New("core: unknown event channel "+string(f.Channel)))
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return BadInputError("list_events", errors.New("core: event filter range is inverted"))
	}
	return nil
}

type EventPage struct {
	Items   []EventRecord
	Page    int
	PerPage int
	Total   int
	HasNext bool
}

type EventJournalReader interface {
	List(ctx context.Context, filter EventFilter) (EventPage, error)
	Latest(ctx context.Context, channel EventChannel) (EventRecord, error)
}

func (c EventChannel) Known() bool {
	for _, channel := range EventChannels() {
		if channel == c {
			return true
		}
	}
	return false
}

// RecordFromEvent flattens event into its journal representation.
func RecordFromEvent(event Event) EventRecord {
	record := EventRecord{
		ID:        event.ID,
		Channel:   event.Channel,
		EmittedAt: event.EmittedAt,
		Payload:   map[string]any{},
	}
	switch {
	case event.Err != nil:
		record.ErrorCode = errorTextCode(event.Err)
		record.ErrorMessage = event.Err.Error()
	case event.Link != nil:
		record.Slug = event.Link.Slug
		record.URL = firstNonEmpty(event.Link.FallbackURL, event.Link.IOSURL, event.Link.AndroidURL)
		record.Payload["link"] = *event.Link
	case event.Log != nil:
		record.Payload["log"] = *event.Log
	case event.Installation != nil:
		record.Payload["installation"] = *event.Installation
	}
	return record
}

func errorTextCode(err error) string {
	if rich := bridgeErrorMapper(err); rich != nil {
		return rich.TextCode
	}
	return BridgeErrorUnknown
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
