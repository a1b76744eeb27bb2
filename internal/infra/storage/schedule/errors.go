package schedule

import "errors"

var (
	// ErrWorkingHoursNotFound возвращается, когда у мастера нет рабочих часов
	// на день недели
	ErrWorkingHoursNotFound = errors.New("schedule.repository: working hours not found")

	// ErrDayOffExists возвращается при попытке добавить выходной на дату,
	// на которую он уже есть
	ErrDayOffExists = errors.New("schedule.repository: day off already exists for this date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
