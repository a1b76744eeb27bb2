package update_user_phone

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	usersService "github.com/m04kA/SMC-AppointmentService/internal/service/users"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPhone       = "некорректный номер телефона"
	msgUserNotFound       = "пользователь не найден"
	msgUnauthorized       = "требуется аутентификация"
)

type Handler struct {
	service UsersService
	logger  Logger
}

func NewHandler(service UsersService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/users/me/phone
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdatePhoneRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /users/me/phone - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	phone, err := h.service.UpdatePhone(r.Context(), userID, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, usersService.ErrUserNotFound):
			h.logger.Warn("PATCH /users/me/phone - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, usersService.ErrInvalidInput):
			h.logger.Warn("PATCH /users/me/phone - Invalid phone: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPhone)

		default:
			h.logger.Error("PATCH /users/me/phone - Failed to update phone: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /users/me/phone - Phone updated: user_id=%d", userID)
	handlers.RespondJSON(w, http.StatusOK, UpdatePhoneResponse{PhoneNumber: phone})
}
