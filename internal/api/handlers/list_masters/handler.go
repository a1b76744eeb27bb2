package list_masters

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// MasterResponse HTTP модель мастера
type MasterResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Handle GET /api/v1/masters
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListMasters(r.Context())
	if err != nil {
		h.logger.Error("GET /masters - Failed to list masters: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	out := make([]MasterResponse, 0, len(result.Masters))
	for _, m := range result.Masters {
		out = append(out, MasterResponse{ID: m.ID, Name: m.Name, Description: m.Description})
	}

	h.logger.Info("GET /masters - %d masters", len(out))
	handlers.RespondJSON(w, http.StatusOK, out)
}
