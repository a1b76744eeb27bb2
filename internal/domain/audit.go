package domain

import "time"

// AuditEntry - запись аудита административных действий. Только добавление,
// записи никогда не изменяются.
type AuditEntry struct {
	ID          int64
	ActorUserID *int64
	Action      string // e.g. "add_master"
	Entity      string // e.g. "Master"
	EntityID    *int64
	Meta        map[string]interface{}
	CreatedAt   time.Time
}
