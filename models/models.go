package models

import (
	"time"

	"github.com/uptrace/bun"
)

// KVEntry is one row of the key-value store backing template persistence.
type KVEntry struct {
	bun.BaseModel `bun:"table:kv_entries,alias:kv"`

	Key       string    `bun:"entry_key,pk"`
	Value     string    `bun:"entry_value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for template operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Actor      string    `bun:"actor,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
