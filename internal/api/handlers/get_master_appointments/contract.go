package get_master_appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentsService interface {
	ListMasterDay(ctx context.Context, masterID int64, date time.Time) (*models.MasterDayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
