package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-linkbridge/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const eventJournalListenerName = "sqlstore.event_journal"

// EventJournal persists bridge events. Subscribe it to a bridge to keep a
// delivery history per channel.
type EventJournal struct {
	db        *bun.DB
	repo      repository.Repository[*eventRecord]
	redaction Redaction
	now       func() time.Time
}

type JournalOption func(*EventJournal)

func WithRedaction(redaction Redaction) JournalOption {
	return func(j *EventJournal) {
		j.redaction = redaction
	}
}

// WithRedactionFromSDKConfig mirrors the last-link redaction settings of
// the bridge config.
func WithRedactionFromSDKConfig(cfg core.SDKConfig) JournalOption {
	return WithRedaction(Redaction{
		AllParameters: cfg.RedactAllParametersInLastLink,
		ParameterKeys: append([]string(nil), cfg.RedactedParameterKeysInLastLink...),
	})
}

func WithJournalClock(now func() time.Time) JournalOption {
	return func(j *EventJournal) {
		if now != nil {
			j.now = now
		}
	}
}

func NewEventJournal(db *bun.DB, opts ...JournalOption) (*EventJournal, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*eventRecord](db, eventHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid event repository wiring: %w", err)
		}
	}
	journal := &EventJournal{db: db, repo: repo, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(journal)
		}
	}
	return journal, nil
}

func (j *EventJournal) Name() string { return eventJournalListenerName }

func (j *EventJournal) OnEvent(ctx context.Context, event core.Event) error {
	return j.Record(ctx, core.RecordFromEvent(event))
}

func (j *EventJournal) Record(ctx context.Context, entry core.EventRecord) error {
	if j == nil || j.repo == nil {
		return fmt.Errorf("sqlstore: event journal is not configured")
	}
	if !entry.Channel.Known() {
		return fmt.Errorf("sqlstore: unknown event channel %q", entry.Channel)
	}
	payload, err := payloadMap(entry.Payload)
	if err != nil {
		return fmt.Errorf("sqlstore: encode event payload: %w", err)
	}

	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	emittedAt := entry.EmittedAt.UTC()
	if emittedAt.IsZero() {
		emittedAt = j.now().UTC()
	}

	record := &eventRecord{
		ID:           id,
		Channel:      string(entry.Channel),
		Slug:         strings.TrimSpace(entry.Slug),
		URL:          strings.TrimSpace(entry.URL),
		ErrorCode:    strings.TrimSpace(entry.ErrorCode),
		ErrorMessage: entry.ErrorMessage,
		Payload:      j.redaction.apply(payload),
		EmittedAt:    emittedAt,
	}
	_, err = j.repo.Create(ctx, record)
	return err
}

func (j *EventJournal) List(ctx context.Context, filter core.EventFilter) (core.EventPage, error) {
	if j == nil || j.repo == nil {
		return core.EventPage{}, fmt.Errorf("sqlstore: event journal is not configured")
	}
	if err := filter.Validate(); err != nil {
		return core.EventPage{}, err
	}
	filter = filter.Normalized()
	offset := (filter.Page - 1) * filter.PerPage

	selectors := []repository.SelectCriteria{
		repository.OrderBy("emitted_at DESC"),
		repository.SelectPaginate(filter.PerPage, offset),
	}
	if filter.Channel != "" {
		selectors = append(selectors, repository.SelectBy("channel", "=", string(filter.Channel)))
	}
	if filter.From != nil {
		selectors = append(selectors, emittedAtBound(">=", *filter.From))
	}
	if filter.To != nil {
		selectors = append(selectors, emittedAtBound("<=", *filter.To))
	}

	records, total, err := j.repo.List(ctx, selectors...)
	if err != nil {
		return core.EventPage{}, err
	}
	items := make([]core.EventRecord, 0, len(records))
	for _, record := range records {
		items = append(items, eventRecordToDomain(record))
	}
	return core.EventPage{
		Items:   items,
		Page:    filter.Page,
		PerPage: filter.PerPage,
		Total:   total,
		HasNext: offset+len(items) < total,
	}, nil
}

// emittedAtBound binds the bound as a time.Time so bun formats it the way the
// dialect stores timestamps; sqlite keeps them as text and compares strings.
func emittedAtBound(operator string, bound time.Time) repository.SelectCriteria {
	return repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.emitted_at "+operator+" ?", bound.UTC())
	})
}

// Latest returns the newest event on channel, or an event-not-found error.
func (j *EventJournal) Latest(ctx context.Context, channel core.EventChannel) (core.EventRecord, error) {
	page, err := j.List(ctx, core.EventFilter{Channel: channel, Page: 1, PerPage: 1})
	if err != nil {
		return core.EventRecord{}, err
	}
	if len(page.Items) == 0 {
		return core.EventRecord{}, core.EventNotFoundError(channel)
	}
	return page.Items[0], nil
}

// Prune deletes events emitted before cutoff and reports how many rows went.
func (j *EventJournal) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	if j == nil || j.db == nil {
		return 0, fmt.Errorf("sqlstore: event journal is not configured")
	}
	res, err := j.db.NewDelete().
		Model((*eventRecord)(nil)).
		Where("emitted_at < ?", cutoff.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return int(affected), nil
}

func eventRecordToDomain(record *eventRecord) core.EventRecord {
	if record == nil {
		return core.EventRecord{}
	}
	return core.EventRecord{
		ID:           record.ID,
		Channel:      core.EventChannel(record.Channel),
		Slug:         record.Slug,
		URL:          record.URL,
		ErrorCode:    record.ErrorCode,
		ErrorMessage: record.ErrorMessage,
		Payload:      copyAnyMap(record.Payload),
		EmittedAt:    record.EmittedAt.UTC(),
	}
}

func copyAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
