package catalog

import (
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// DBExecutor интерфейс для работы с БД (пул соединений или транзакция)
type DBExecutor = txmanager.Executor
