package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

const (
	msgMissingBusinessID = "ID бизнеса обязателен"
	msgMissingServiceID  = "ID услуги обязателен"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidParams     = "некорректные параметры запроса"
	msgBusinessNotFound  = "бизнес не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgServiceInactive   = "услуга недоступна для записи"
	msgDateInPast        = "дата уже прошла"
	msgDateTooFar        = "дата слишком далеко в будущем"
	msgStaleSelection    = "запрос устарел: выбрана другая дата"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD), staffId (optional)
// Header: X-Session-ID (optional) - более новый запрос той же сессии отменяет предыдущий
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID := mux.Vars(r)["businessId"]
	if businessID == "" {
		handlers.RespondBadRequest(w, msgMissingBusinessID)
		return
	}

	query := r.URL.Query()

	serviceID := query.Get("serviceId")
	if serviceID == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing service ID: business_id=%s", businessID)
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing date: business_id=%s", businessID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Формируем запрос к use case (с парсингом даты)
	useCaseReq, err := ToUseCaseRequest(businessID, serviceID, query.Get("staffId"), dateStr, r.Header.Get(HeaderSessionID))
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Business not found: business_id=%s", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Service not found: business_id=%s, service_id=%s",
				businessID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /businesses/{id}/available-slots - Service inactive: business_id=%s, service_id=%s",
				businessID, serviceID)
			handlers.RespondUnprocessable(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailableSlots.ErrStaleSelection):
			// клиент уже ждёт ответ на более новый запрос
			h.logger.Info("GET /businesses/{id}/available-slots - Stale selection dropped: business_id=%s, date=%s",
				businessID, dateStr)
			handlers.RespondError(w, http.StatusConflict, msgStaleSelection)

		default:
			h.logger.Error("GET /businesses/{id}/available-slots - Failed to get slots: business_id=%s, service_id=%s, error=%v",
				businessID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /businesses/{id}/available-slots - Slots retrieved: business_id=%s, service_id=%s, date=%s, slots_count=%d, degraded=%t",
		result.BusinessID, serviceID, dateStr, len(result.Slots), result.Degraded)
	handlers.RespondJSON(w, http.StatusOK, response)
}
