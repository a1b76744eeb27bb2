package confirm_payment

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платёж не найден или принадлежит
	// записи другого пользователя (чужие платежи не раскрываем)
	ErrPaymentNotFound = errors.New("confirm_payment: payment not found")

	// ErrAlreadyCancelled возвращается при попытке оплатить отменённую запись
	ErrAlreadyCancelled = errors.New("confirm_payment: appointment is already cancelled")

	// ErrInvalidState возвращается, когда платёж не может быть подтверждён
	// из текущего статуса (cancelled/failed/refunded)
	ErrInvalidState = errors.New("confirm_payment: payment is not confirmable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
