package domain

import "time"

// AppointmentStatus represents the status of an appointment in the store
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCanceled  AppointmentStatus = "CANCELED"
	AppointmentNoShow    AppointmentStatus = "NO_SHOW"
)

// Appointment is an existing reservation as returned by the appointment store.
// StartTime and EndTime are kept raw: either a business-local "HH:MM" or an RFC 3339 instant.
type Appointment struct {
	ID              string
	BusinessID      string
	ServiceID       string
	StaffID         string
	CustomerID      string
	Date            time.Time
	StartTime       string
	EndTime         string
	DurationMinutes int
	Status          AppointmentStatus
	CustomerNotes   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies time on the calendar.
// Only canceled appointments release their time; unknown statuses block.
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentCanceled
}

// AppointmentsFilter фильтр выборки записей бизнеса
type AppointmentsFilter struct {
	BusinessID      string     // Обязательный параметр
	StartDate       *time.Time // Начало периода (включительно)
	EndDate         *time.Time // Конец периода (включительно)
	StaffID         *string    // Фильтр по сотруднику (опционально)
	IncludeCanceled bool       // Включать отменённые записи
}

// NewAppointment данные для создания записи во внешнем хранилище
type NewAppointment struct {
	BusinessID     string
	ServiceID      string
	StaffID        *string
	CustomerID     string
	Date           time.Time
	StartTime      string
	CustomerNotes  *string
	IdempotencyKey string
}
