package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentView представление записи для клиента
type AppointmentView struct {
	ID          int64
	MasterID    int64
	MasterName  string
	ServiceID   int64
	ServiceName string
	StartsAt    time.Time
	EndsAt      time.Time
	Status      string
	PaymentID   *int64
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentView
}

// MasterDayView запись в дневном расписании мастера
type MasterDayView struct {
	ID          int64
	UserID      int64
	ServiceID   int64
	ServiceName string
	StartsAt    time.Time
	EndsAt      time.Time
}

// MasterDayResponse активные записи мастера на дату
type MasterDayResponse struct {
	MasterID     int64
	Date         time.Time
	Appointments []MasterDayView
}

// FromDomainAppointment конвертирует доменную запись в представление.
// Имена мастера и услуги передаются отдельно - доменная запись их не несёт.
func FromDomainAppointment(appt *domain.Appointment, masterName, serviceName string) AppointmentView {
	return AppointmentView{
		ID:          appt.ID,
		MasterID:    appt.MasterID,
		MasterName:  masterName,
		ServiceID:   appt.ServiceID,
		ServiceName: serviceName,
		StartsAt:    appt.StartsAt,
		EndsAt:      appt.EndsAt,
		Status:      string(appt.Status),
		PaymentID:   appt.PaymentID,
	}
}
