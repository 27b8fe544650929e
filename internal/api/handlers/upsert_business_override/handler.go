package upsert_business_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные исключения"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle PUT /api/v1/businesses/{businessId}/hours-overrides/{date}
// Создаёт или полностью заменяет исключение на дату (только менеджеры бизнеса)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	vars := mux.Vars(r)
	businessID := vars["businessId"]
	date := vars["date"]

	var req UpsertOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/hours-overrides/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(userID, businessID, date))
	if err != nil {
		switch {
		case errors.Is(err, overrides.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/hours-overrides/{date} - Invalid data: business_id=%s, date=%s, error=%v",
				businessID, date, err)
			// текст ошибки валидации помогает менеджеру исправить форму
			handlers.RespondBadRequest(w, msgInvalidData+": "+err.Error())

		case errors.Is(err, overrides.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, overrides.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/hours-overrides/{date} - Access denied: business_id=%s, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /businesses/{id}/hours-overrides/{date} - Failed to upsert override: business_id=%s, date=%s, error=%v",
				businessID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/hours-overrides/{date} - Override saved: business_id=%s, date=%s, override_id=%d",
		result.BusinessID, result.Date, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
