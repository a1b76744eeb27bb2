package get_user_appointments

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// AppointmentResponse HTTP модель записи пользователя
type AppointmentResponse struct {
	ID          int64  `json:"id"`
	MasterID    int64  `json:"masterId"`
	MasterName  string `json:"masterName"`
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	StartsAt    string `json:"startsAt"`
	EndsAt      string `json:"endsAt"`
	Status      string `json:"status"`
	PaymentID   *int64 `json:"paymentId,omitempty"`
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.AppointmentListResponse) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(resp.Appointments))
	for _, a := range resp.Appointments {
		out = append(out, AppointmentResponse{
			ID:          a.ID,
			MasterID:    a.MasterID,
			MasterName:  a.MasterName,
			ServiceID:   a.ServiceID,
			ServiceName: a.ServiceName,
			StartsAt:    a.StartsAt.Format(time.RFC3339),
			EndsAt:      a.EndsAt.Format(time.RFC3339),
			Status:      a.Status,
			PaymentID:   a.PaymentID,
		})
	}
	return out
}
