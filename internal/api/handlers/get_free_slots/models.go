package get_free_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getFreeSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_free_slots"
)

// SlotResponse HTTP модель свободного слота
type SlotResponse struct {
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"
}

// FreeSlotsResponse HTTP response model
type FreeSlotsResponse struct {
	MasterID  int64          `json:"masterId"`
	ServiceID int64          `json:"serviceId"`
	Date      string         `json:"date"` // "2025-10-15"
	Slots     []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getFreeSlots.Response) *FreeSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: s.StartsAt.Format(domain.TimeFormat),
			EndTime:   s.EndsAt.Format(domain.TimeFormat),
		})
	}

	return &FreeSlotsResponse{
		MasterID:  resp.MasterID,
		ServiceID: resp.ServiceID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     slots,
	}
}
