package payments

import "errors"

var (
	// ErrUnknownProvider возвращается при запросе незарегистрированного провайдера
	ErrUnknownProvider = errors.New("payments: unknown provider")
)
