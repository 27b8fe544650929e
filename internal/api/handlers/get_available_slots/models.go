package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

// HeaderSessionID ключ сессии выбора даты на клиенте
const HeaderSessionID = "X-Session-ID"

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	BusinessID        string          `json:"businessId"`
	ServiceID         string          `json:"serviceId"`
	StaffID           *string         `json:"staffId,omitempty"`
	Date              string          `json:"date"`
	Timezone          string          `json:"timezone"`
	DurationMinutes   int             `json:"durationMinutes"`
	Closed            bool            `json:"closed"`
	HoursSource       string          `json:"hoursSource"`
	OverrideReason    string          `json:"overrideReason,omitempty"`
	Degraded          bool            `json:"degraded"`
	DegradedReasons   []string        `json:"degradedReasons,omitempty"`
	DailyLimitReached bool            `json:"dailyLimitReached"`
	SkippedRecords    int             `json:"skippedRecords,omitempty"`
	Slots             []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	Time                     string `json:"time"`
	Available                bool   `json:"available"`
	State                    string `json:"state"`
	ConflictingAppointmentID string `json:"conflictingAppointmentId,omitempty"`
}

// FromDomainSlots конвертирует слоты в HTTP модель. Пустой список остаётся [] в JSON.
func FromDomainSlots(slots []domain.TimeSlot) []AvailableSlot {
	out := make([]AvailableSlot, len(slots))
	for i, slot := range slots {
		out[i] = AvailableSlot{
			Time:                     slot.Time.String(),
			Available:                slot.Available,
			State:                    string(slot.State),
			ConflictingAppointmentID: slot.ConflictingAppointmentID,
		}
	}
	return out
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		BusinessID:        resp.BusinessID,
		ServiceID:         resp.ServiceID,
		StaffID:           resp.StaffID,
		Date:              resp.Date.Format(domain.DateFormat),
		Timezone:          resp.Timezone,
		DurationMinutes:   resp.DurationMinutes,
		Closed:            resp.Closed,
		HoursSource:       resp.HoursSource,
		OverrideReason:    resp.OverrideReason,
		Degraded:          resp.Degraded,
		DegradedReasons:   resp.DegradedReasons,
		DailyLimitReached: resp.DailyLimitReached,
		SkippedRecords:    resp.SkippedRecords,
		Slots:             FromDomainSlots(resp.Slots),
	}
}

// ToUseCaseRequest создает запрос use case из пути и query параметров
func ToUseCaseRequest(businessID, serviceID, staffID, dateStr, sessionID string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	var staff *string
	if staffID != "" {
		staff = &staffID
	}

	return &getAvailableSlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		StaffID:    staff,
		Date:       date,
		SessionID:  sessionID,
	}, nil
}
