package delete_business_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
)

const (
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotFound         = "исключение на дату не найдено"
	msgBusinessNotFound = "бизнес не найден"
	msgForbidden        = "доступ запрещен"
)

type Handler struct {
	service OverrideService
	logger  Logger
}

func NewHandler(service OverrideService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/businesses/{businessId}/hours-overrides/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	vars := mux.Vars(r)
	req := &models.DeleteOverrideRequest{
		UserID:     userID,
		BusinessID: vars["businessId"],
		Date:       vars["date"],
	}

	if err := h.service.Delete(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, overrides.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, overrides.ErrOverrideNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, overrides.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, overrides.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/hours-overrides/{date} - Access denied: business_id=%s, user_id=%d",
				req.BusinessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/hours-overrides/{date} - Failed to delete override: business_id=%s, date=%s, error=%v",
				req.BusinessID, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/hours-overrides/{date} - Override deleted: business_id=%s, date=%s",
		req.BusinessID, req.Date)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
