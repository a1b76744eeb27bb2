package add_break

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type ScheduleService interface {
	AddBreak(ctx context.Context, actorID, masterID int64, weekday int, start, end types.TimeString) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
