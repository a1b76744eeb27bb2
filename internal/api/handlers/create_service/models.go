package create_service

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// CreateServiceRequest HTTP request model
type CreateServiceRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	PriceCents      int64   `json:"priceCents"`
}

// ServiceResponse HTTP response model
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	PriceCents      int64   `json:"priceCents"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateServiceRequest) ToServiceRequest(actorID int64) *models.CreateServiceRequest {
	return &models.CreateServiceRequest{
		ActorID:         actorID,
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		PriceCents:      r.PriceCents,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.ServiceResponse) *ServiceResponse {
	return &ServiceResponse{
		ID:              resp.ID,
		Name:            resp.Name,
		Description:     resp.Description,
		DurationMinutes: resp.DurationMinutes,
		PriceCents:      resp.PriceCents,
	}
}
