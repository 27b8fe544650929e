package create_appointment

import (
	"strconv"
	"time"

	slotsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// HeaderIdempotencyKey ключ идемпотентности, пробрасывается в хранилище
const HeaderIdempotencyKey = "Idempotency-Key"

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID    string  `json:"businessId"`
	ServiceID     string  `json:"serviceId"`
	StaffID       *string `json:"staffId,omitempty"`
	Date          string  `json:"date"`      // "2024-03-15"
	StartTime     string  `json:"startTime"` // "10:00"
	CustomerNotes *string `json:"customerNotes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              string  `json:"id"`
	BusinessID      string  `json:"businessId"`
	ServiceID       string  `json:"serviceId"`
	StaffID         string  `json:"staffId,omitempty"`
	CustomerID      string  `json:"customerId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	CustomerNotes   *string `json:"customerNotes,omitempty"`
	IdempotencyKey  string  `json:"idempotencyKey"`
	Degraded        bool    `json:"degraded"`
}

// SlotConflictResponse ответ 409: слот занят, в теле актуальная сетка на дату
type SlotConflictResponse struct {
	Code      int                          `json:"code"`
	Message   string                       `json:"message"`
	State     string                       `json:"state,omitempty"`
	Refreshed bool                         `json:"refreshed"`
	Slots     []slotsHandler.AvailableSlot `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64, idempotencyKey string) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	// "10:00:00" и "10:00" приводятся к одному виду
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createAppointment.Request{
		CustomerID:     strconv.FormatInt(userID, 10),
		BusinessID:     r.BusinessID,
		ServiceID:      r.ServiceID,
		StaffID:        r.StaffID,
		Date:           date,
		StartTime:      startTime,
		CustomerNotes:  r.CustomerNotes,
		IdempotencyKey: idempotencyKey,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		StaffID:         resp.StaffID,
		CustomerID:      resp.CustomerID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime,
		DurationMinutes: resp.DurationMinutes,
		Status:          string(resp.Status),
		CustomerNotes:   resp.CustomerNotes,
		IdempotencyKey:  resp.IdempotencyKey,
		Degraded:        resp.Degraded,
	}
}

// FromSlotConflict собирает тело ответа 409
func FromSlotConflict(status int, message string, conflict *createAppointment.SlotConflictError) *SlotConflictResponse {
	return &SlotConflictResponse{
		Code:      status,
		Message:   message,
		State:     string(conflict.State),
		Refreshed: conflict.Refreshed,
		Slots:     slotsHandler.FromDomainSlots(conflict.Slots),
	}
}
