package catalog

import "errors"

var (
	// ErrNameTaken возвращается, когда имя мастера или услуги уже занято
	ErrNameTaken = errors.New("name is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
