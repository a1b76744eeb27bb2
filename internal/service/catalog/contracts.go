package catalog

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	CreateMaster(ctx context.Context, m *domain.Master) (*domain.Master, error)
	CreateService(ctx context.Context, s *domain.Service) (*domain.Service, error)
	ListMasters(ctx context.Context) ([]*domain.Master, error)
	ListServices(ctx context.Context) ([]*domain.Service, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	SetRole(ctx context.Context, id int64, role domain.UserRole) error
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
