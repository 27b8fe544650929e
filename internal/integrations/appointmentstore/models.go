package appointmentstore

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// CreateAppointmentRequest тело запроса на создание записи
type CreateAppointmentRequest struct {
	BusinessID    string  `json:"businessId"`
	ServiceID     string  `json:"serviceId"`
	StaffID       *string `json:"staffId,omitempty"`
	CustomerID    string  `json:"customerId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	CustomerNotes *string `json:"customerNotes,omitempty"`
}

// Appointment модель записи из хранилища
type Appointment struct {
	ID              string  `json:"id"`
	BusinessID      string  `json:"businessId"`
	ServiceID       string  `json:"serviceId"`
	StaffID         string  `json:"staffId,omitempty"`
	CustomerID      string  `json:"customerId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime,omitempty"`
	DurationMinutes int     `json:"duration"`
	Status          string  `json:"status"`
	CustomerNotes   *string `json:"customerNotes,omitempty"`
}

// ErrorResponse модель ошибки от хранилища
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newCreateRequest(a *domain.NewAppointment) CreateAppointmentRequest {
	return CreateAppointmentRequest{
		BusinessID:    a.BusinessID,
		ServiceID:     a.ServiceID,
		StaffID:       a.StaffID,
		CustomerID:    a.CustomerID,
		Date:          a.Date.Format(domain.DateFormat),
		StartTime:     a.StartTime,
		CustomerNotes: a.CustomerNotes,
	}
}

// ToDomain конвертирует ответ хранилища в доменную модель
func (a *Appointment) ToDomain() (*domain.Appointment, error) {
	date, err := time.Parse(domain.DateFormat, a.Date)
	if err != nil {
		return nil, err
	}
	return &domain.Appointment{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		ServiceID:       a.ServiceID,
		StaffID:         a.StaffID,
		CustomerID:      a.CustomerID,
		Date:            date,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Status:          domain.AppointmentStatus(a.Status),
		CustomerNotes:   a.CustomerNotes,
	}, nil
}
