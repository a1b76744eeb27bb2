package get_master_appointments

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// AppointmentResponse HTTP модель записи в дневном расписании мастера
type AppointmentResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	StartsAt    string `json:"startsAt"`
	EndsAt      string `json:"endsAt"`
}

// MasterDayResponse HTTP response model
type MasterDayResponse struct {
	MasterID     int64                 `json:"masterId"`
	Date         string                `json:"date"`
	Appointments []AppointmentResponse `json:"appointments"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.MasterDayResponse) *MasterDayResponse {
	appointments := make([]AppointmentResponse, 0, len(resp.Appointments))
	for _, a := range resp.Appointments {
		appointments = append(appointments, AppointmentResponse{
			ID:          a.ID,
			UserID:      a.UserID,
			ServiceID:   a.ServiceID,
			ServiceName: a.ServiceName,
			StartsAt:    a.StartsAt.Format(time.RFC3339),
			EndsAt:      a.EndsAt.Format(time.RFC3339),
		})
	}

	return &MasterDayResponse{
		MasterID:     resp.MasterID,
		Date:         resp.Date.Format(domain.DateFormat),
		Appointments: appointments,
	}
}
