package update_user_phone

import "context"

type UsersService interface {
	UpdatePhone(ctx context.Context, userID int64, phone string) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
