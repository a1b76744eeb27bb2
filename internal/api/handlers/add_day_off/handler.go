package add_day_off

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidMasterID    = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMasterNotFound     = "мастер не найден"
	msgDayOffExists       = "выходной на эту дату уже добавлен"
	msgUnauthorized       = "требуется аутентификация"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/masters/{masterId}/days-off
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	masterID, err := strconv.ParseInt(mux.Vars(r)["masterId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /masters/{masterId}/days-off - Invalid master ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	var req AddDayOffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /masters/{masterId}/days-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /masters/{masterId}/days-off - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	err = h.service.AddDayOff(r.Context(), actorID, masterID, date, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrMasterNotFound):
			h.logger.Warn("POST /masters/{masterId}/days-off - Master not found: master_id=%d", masterID)
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, scheduleService.ErrDayOffExists):
			h.logger.Warn("POST /masters/{masterId}/days-off - Day off exists: master_id=%d, date=%s",
				masterID, req.Date)
			handlers.RespondConflict(w, msgDayOffExists)

		case errors.Is(err, scheduleService.ErrInvalidInput):
			h.logger.Warn("POST /masters/{masterId}/days-off - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /masters/{masterId}/days-off - Failed: master_id=%d, error=%v", masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /masters/{masterId}/days-off - Day off added: master_id=%d, date=%s", masterID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, nil)
}
