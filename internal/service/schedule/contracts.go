package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	UpsertWorkingHours(ctx context.Context, masterID int64, weekday int, start, end types.TimeString) error
	AddBreak(ctx context.Context, masterID int64, weekday int, start, end types.TimeString) error
	AddDayOff(ctx context.Context, masterID int64, date time.Time, reason *string) error
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
