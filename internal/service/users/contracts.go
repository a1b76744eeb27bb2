package users

import "context"

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	SetPhone(ctx context.Context, id int64, phone string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
