package get_free_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// ScheduleRepository интерфейс репозитория расписания мастеров
type ScheduleRepository interface {
	HasDayOff(ctx context.Context, masterID int64, date time.Time) (bool, error)
	GetWorkingHours(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error)
	ListBreaks(ctx context.Context, masterID int64, weekday int) ([]*domain.Break, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetBusyIntervals(ctx context.Context, masterID int64, from, to time.Time) ([]domain.TimeInterval, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
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
