package models

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CreateMasterRequest модель запроса на создание мастера
type CreateMasterRequest struct {
	ActorID     int64
	Name        string
	Description *string
	TgUserID    *int64
}

// CreateServiceRequest модель запроса на создание услуги
type CreateServiceRequest struct {
	ActorID         int64
	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int64
}

// MasterResponse представление мастера
type MasterResponse struct {
	ID          int64
	Name        string
	Description *string
}

// ServiceResponse представление услуги
type ServiceResponse struct {
	ID              int64
	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int64
}

// MasterListResponse список мастеров
type MasterListResponse struct {
	Masters []MasterResponse
}

// ServiceListResponse список услуг
type ServiceListResponse struct {
	Services []ServiceResponse
}

// FromDomainMaster конвертирует доменного мастера в представление
func FromDomainMaster(m *domain.Master) MasterResponse {
	return MasterResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
	}
}

// FromDomainService конвертирует доменную услугу в представление
func FromDomainService(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		PriceCents:      s.PriceCents,
	}
}
