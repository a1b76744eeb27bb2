package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	MasterID  int64   `json:"masterId"`
	ServiceID int64   `json:"serviceId"`
	Date      string  `json:"date"`      // "2025-10-15"
	StartTime string  `json:"startTime"` // "10:00"
	Username  *string `json:"username,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID           int64   `json:"id"`
	MasterID     int64   `json:"masterId"`
	StartsAt     string  `json:"startsAt"`
	EndsAt       string  `json:"endsAt"`
	Status       string  `json:"status"`
	ServiceName  string  `json:"serviceName"`
	ServicePrice int64   `json:"servicePriceCents"`
	PaymentID    *int64  `json:"paymentId,omitempty"`
	PayURL       *string `json:"payUrl,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Дата и время приходят раздельно и собираются в момент начала в таймзоне loc.
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64, loc *time.Location) (*createAppointment.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	startsAt, err := startTime.At(date, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}

	return &createAppointment.Request{
		UserID:    userID,
		Username:  r.Username,
		MasterID:  r.MasterID,
		ServiceID: r.ServiceID,
		StartsAt:  startsAt,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:           resp.ID,
		MasterID:     resp.MasterID,
		StartsAt:     resp.StartsAt.Format(time.RFC3339),
		EndsAt:       resp.EndsAt.Format(time.RFC3339),
		Status:       resp.Status,
		ServiceName:  resp.ServiceName,
		ServicePrice: resp.ServicePrice,
		PaymentID:    resp.PaymentID,
		PayURL:       resp.PayURL,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
