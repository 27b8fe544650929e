package get_business_overrides

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
	msgInvalidPeriod    = "некорректный период, ожидается from/to в формате YYYY-MM-DD"
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

// Handle GET /api/v1/businesses/{businessId}/hours-overrides
// Query params: from, to (опционально, YYYY-MM-DD, включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	businessID := mux.Vars(r)["businessId"]
	query := r.URL.Query()

	req := &models.ListOverridesRequest{
		UserID:     userID,
		BusinessID: businessID,
		From:       optional(query.Get("from")),
		To:         optional(query.Get("to")),
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, overrides.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/hours-overrides - Invalid period: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		case errors.Is(err, overrides.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, overrides.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/hours-overrides - Access denied: business_id=%s, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /businesses/{id}/hours-overrides - Failed to list overrides: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/hours-overrides - Overrides retrieved: business_id=%s, count=%d",
		businessID, len(result.Overrides))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
