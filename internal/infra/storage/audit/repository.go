package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// Repository репозиторий журнала аудита. Только запись.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал аудита. Meta сериализуется в JSONB.
func (r *Repository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	var meta interface{}
	if entry.Meta != nil {
		raw, err := json.Marshal(entry.Meta)
		if err != nil {
			return fmt.Errorf("%w: Append - marshal meta: %v", ErrBuildQuery, err)
		}
		meta = raw
	}

	query, args, err := psqlbuilder.Insert("audit_log").
		Columns("actor_user_id", "action", "entity", "entity_id", "meta").
		Values(entry.ActorUserID, entry.Action, entry.Entity, entry.EntityID, meta).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
