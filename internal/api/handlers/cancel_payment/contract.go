package cancel_payment

import (
	"context"
)

type AppointmentsService interface {
	CancelPayment(ctx context.Context, paymentID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
