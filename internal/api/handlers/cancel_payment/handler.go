package cancel_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidPaymentID = "некорректный ID платежа"
	msgPaymentNotFound  = "платёж не найден"
	msgAlreadyCancelled = "платёж уже отменён"
	msgCannotCancel     = "платёж нельзя отменить из текущего статуса"
	msgUnauthorized     = "требуется аутентификация"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/{paymentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	paymentID, err := strconv.ParseInt(mux.Vars(r)["paymentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /payments/{paymentId}/cancel - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	err = h.service.CancelPayment(r.Context(), paymentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/{paymentId}/cancel - Payment not found: payment_id=%d, user_id=%d",
				paymentID, userID)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, appointments.ErrAlreadyCancelled):
			h.logger.Warn("POST /payments/{paymentId}/cancel - Already cancelled: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgAlreadyCancelled)

		case errors.Is(err, appointments.ErrInvalidState):
			h.logger.Warn("POST /payments/{paymentId}/cancel - Invalid state: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /payments/{paymentId}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPaymentID)

		default:
			h.logger.Error("POST /payments/{paymentId}/cancel - Failed to cancel: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{paymentId}/cancel - Payment cancelled: payment_id=%d, user_id=%d",
		paymentID, userID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
