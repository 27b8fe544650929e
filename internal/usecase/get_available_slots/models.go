package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Причины деградации расчёта
const (
	DegradedBusinessUnavailable     = "business_unavailable"
	DegradedAppointmentsUnavailable = "appointments_unavailable"
	DegradedOverridesUnavailable    = "overrides_unavailable"
	DegradedUnknownTimezone         = "unknown_timezone"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID string    // ID или slug бизнеса
	ServiceID  string    // ID услуги
	StaffID    *string   // Сотрудник (опционально)
	Date       time.Time // Календарная дата (используются только год, месяц, день)
	SessionID  string    // Ключ сессии выбора; пустой отключает защиту от устаревших ответов
}

// Response модель ответа со списком слотов
type Response struct {
	BusinessID        string
	ServiceID         string
	StaffID           *string
	Date              time.Time
	Timezone          string
	DurationMinutes   int
	Closed            bool
	HoursSource       string // weekday | override | fallback
	OverrideReason    string
	Degraded          bool
	DegradedReasons   []string
	DailyLimitReached bool
	SkippedRecords    int // Записи, пропущенные из-за некорректных данных
	Slots             []domain.TimeSlot
}

// Slot возвращает слот с указанным временем начала
func (r *Response) Slot(startTime string) (domain.TimeSlot, bool) {
	for _, s := range r.Slots {
		if s.Time.String() == startTime {
			return s, true
		}
	}
	return domain.TimeSlot{}, false
}
