package confirm_payment

import (
	"time"

	confirmPayment "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
)

// ConfirmPaymentResponse HTTP response model
type ConfirmPaymentResponse struct {
	AppointmentID     int64   `json:"appointmentId"`
	PaymentID         int64   `json:"paymentId"`
	AppointmentStatus string  `json:"appointmentStatus"`
	PaymentStatus     string  `json:"paymentStatus"`
	PaidAt            *string `json:"paidAt,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmPayment.Response) *ConfirmPaymentResponse {
	out := &ConfirmPaymentResponse{
		AppointmentID:     resp.AppointmentID,
		PaymentID:         resp.PaymentID,
		AppointmentStatus: resp.AppointmentStatus,
		PaymentStatus:     resp.PaymentStatus,
	}
	if resp.PaidAt != nil {
		paidAt := resp.PaidAt.Format(time.RFC3339)
		out.PaidAt = &paidAt
	}
	return out
}
