package reminder

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей для сканера напоминаний
type AppointmentRepository interface {
	ListDueReminders(ctx context.Context, kind domain.ReminderKind, from, to time.Time) ([]*domain.UpcomingAppointment, error)
	MarkReminded(ctx context.Context, id int64, kind domain.ReminderKind) error
}

// Notifier интерфейс транспорта уведомлений
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}

// Lock интерфейс распределённой блокировки воркера
type Lock interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
