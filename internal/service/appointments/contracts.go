package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByPaymentIDForUpdate(ctx context.Context, paymentID, userID int64) (*domain.Appointment, error)
	CancelOwned(ctx context.Context, id, userID int64) (*int64, bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	ListFutureByUser(ctx context.Context, userID int64, now time.Time) ([]*domain.Appointment, error)
	ListByMasterDay(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Payment, error)
	CancelIfPending(ctx context.Context, id int64) (bool, error)
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetMaster(ctx context.Context, id int64) (*domain.Master, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
