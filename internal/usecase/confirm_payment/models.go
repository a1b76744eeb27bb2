package confirm_payment

import (
	"time"
)

// Request модель запроса подтверждения оплаты
type Request struct {
	PaymentID int64 // ID платежа
	UserID    int64 // ID пользователя-владельца записи
}

// Response модель ответа с результатом подтверждения
type Response struct {
	AppointmentID     int64
	PaymentID         int64
	AppointmentStatus string
	PaymentStatus     string
	PaidAt            *time.Time
}
