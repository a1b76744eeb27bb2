package create_master

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// CreateMasterRequest HTTP request model
type CreateMasterRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	TgUserID    *int64  `json:"tgUserId,omitempty"`
}

// MasterResponse HTTP response model
type MasterResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateMasterRequest) ToServiceRequest(actorID int64) *models.CreateMasterRequest {
	return &models.CreateMasterRequest{
		ActorID:     actorID,
		Name:        r.Name,
		Description: r.Description,
		TgUserID:    r.TgUserID,
	}
}

// FromServiceResponse конвертирует ответ сервиса в HTTP response
func FromServiceResponse(resp *models.MasterResponse) *MasterResponse {
	return &MasterResponse{
		ID:          resp.ID,
		Name:        resp.Name,
		Description: resp.Description,
	}
}
