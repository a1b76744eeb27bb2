package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена или
	// принадлежит другому пользователю
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPaymentNotFound возвращается, когда платёж не найден или привязан
	// к записи другого пользователя
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrAlreadyCancelled возвращается при повторной отмене
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")

	// ErrInvalidState возвращается, когда операция недопустима из текущего
	// статуса (например, отмена оплаченного платежа)
	ErrInvalidState = errors.New("operation is not allowed in current state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
