package sqlstore

import "github.com/goliatone/go-linkbridge/core"

var (
	_ core.EventListener      = (*EventJournal)(nil)
	_ core.EventJournalReader = (*EventJournal)(nil)
	_ EventJournalStore       = (*EventJournal)(nil)
	_ core.EventListener      = (*CachedEventJournal)(nil)
	_ EventJournalStore       = (*CachedEventJournal)(nil)
)
