package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidData        = "некорректные данные записи"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgDateInPast         = "дата записи уже прошла"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgSlotConflict       = "выбранный слот только что заняли, выберите другое время"
	msgPolicyRejected     = "запись отклонена правилами бизнеса"
	msgStoreUnavailable   = "сервис записей временно недоступен"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
// Header: X-User-ID (через middleware.Auth), Idempotency-Key (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID, r.Header.Get(HeaderIdempotencyKey))
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, &req, userID, err)
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, user_id=%d, business_id=%s",
		result.ID, userID, result.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) respondError(w http.ResponseWriter, req *CreateAppointmentRequest, userID int64, err error) {
	// Конфликт по слоту: отдаём актуальную сетку
	var conflict *createAppointment.SlotConflictError
	if errors.As(err, &conflict) {
		msg := msgSlotConflict
		if errors.Is(err, createAppointment.ErrSlotNotAvailable) {
			msg = msgSlotNotAvailable
		}
		h.logger.Warn("POST /appointments - Slot conflict: user_id=%d, business_id=%s, date=%s, time=%s, state=%s",
			userID, req.BusinessID, req.Date, req.StartTime, conflict.State)
		handlers.RespondJSON(w, http.StatusConflict, FromSlotConflict(http.StatusConflict, msg, conflict))
		return
	}

	switch {
	case errors.Is(err, createAppointment.ErrBusinessNotFound):
		h.logger.Warn("POST /appointments - Business not found: business_id=%s", req.BusinessID)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, createAppointment.ErrServiceNotFound):
		h.logger.Warn("POST /appointments - Service not found: business_id=%s, service_id=%s", req.BusinessID, req.ServiceID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createAppointment.ErrServiceInactive):
		handlers.RespondUnprocessable(w, msgServiceInactive)

	case errors.Is(err, createAppointment.ErrInvalidDate):
		handlers.RespondBadRequest(w, msgDateInPast)

	case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, createAppointment.ErrInvalidInput):
		h.logger.Warn("POST /appointments - Invalid data: user_id=%d, error=%v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidData)

	case errors.Is(err, createAppointment.ErrPolicyRejected):
		h.logger.Warn("POST /appointments - Rejected by policy: user_id=%d, business_id=%s, error=%v",
			userID, req.BusinessID, err)
		handlers.RespondUnprocessable(w, msgPolicyRejected)

	case errors.Is(err, createAppointment.ErrStoreUnavailable):
		h.logger.Error("POST /appointments - Appointment store unavailable: %v", err)
		handlers.RespondBadGateway(w, msgStoreUnavailable)

	default:
		h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, business_id=%s, error=%v",
			userID, req.BusinessID, err)
		handlers.RespondInternalError(w)
	}
}
