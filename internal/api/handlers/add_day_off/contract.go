package add_day_off

import (
	"context"
	"time"
)

type ScheduleService interface {
	AddDayOff(ctx context.Context, actorID, masterID int64, date time.Time, reason *string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
