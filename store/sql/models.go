package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type eventRecord struct {
	bun.BaseModel `bun:"table:linkbridge_events,alias:lbe"`

	ID           string         `bun:"id,pk"`
	Channel      string         `bun:"channel,notnull"`
	Slug         string         `bun:"slug,notnull"`
	URL          string         `bun:"url,notnull"`
	ErrorCode    string         `bun:"error_code,notnull"`
	ErrorMessage string         `bun:"error_message,notnull"`
	Payload      map[string]any `bun:"payload,type:jsonb,notnull"`
	EmittedAt    time.Time      `bun:"emitted_at,notnull"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
