package confirm_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	confirmPayment "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
)

const (
	msgInvalidPaymentID  = "некорректный ID платежа"
	msgPaymentNotFound   = "платёж не найден"
	msgAlreadyCancelled  = "запись отменена, оплата невозможна"
	msgPaymentNotPending = "платёж нельзя подтвердить из текущего статуса"
	msgUnauthorized      = "требуется аутентификация"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/{paymentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	paymentID, err := strconv.ParseInt(mux.Vars(r)["paymentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /payments/{paymentId}/confirm - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmPayment.Request{
		PaymentID: paymentID,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/{paymentId}/confirm - Payment not found: payment_id=%d, user_id=%d",
				paymentID, userID)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, confirmPayment.ErrAlreadyCancelled):
			h.logger.Warn("POST /payments/{paymentId}/confirm - Appointment cancelled: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgAlreadyCancelled)

		case errors.Is(err, confirmPayment.ErrInvalidState):
			h.logger.Warn("POST /payments/{paymentId}/confirm - Invalid state: payment_id=%d", paymentID)
			handlers.RespondConflict(w, msgPaymentNotPending)

		case errors.Is(err, confirmPayment.ErrInvalidInput):
			h.logger.Warn("POST /payments/{paymentId}/confirm - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPaymentID)

		default:
			h.logger.Error("POST /payments/{paymentId}/confirm - Failed to confirm: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{paymentId}/confirm - Payment confirmed: payment_id=%d, appointment_id=%d",
		result.PaymentID, result.AppointmentID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
