package availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ApplyNotice marks slots that start before now+minNotificationHours as PAST.
// A slot exactly at the boundary stays bookable. PAST overrides any earlier state.
func ApplyNotice(slots []domain.TimeSlot, date time.Time, clock *Clock, now time.Time, minNotificationHours int) []domain.TimeSlot {
	if minNotificationHours < 0 {
		minNotificationHours = 0
	}
	minBooking := now.Add(time.Duration(minNotificationHours) * time.Hour)

	out := make([]domain.TimeSlot, len(slots))
	for i, s := range slots {
		if clock.At(date, s.Time.Minutes()).Before(minBooking) {
			s.State = domain.SlotPast
			s.Available = false
			s.ConflictingAppointmentID = ""
		}
		out[i] = s
	}
	return out
}
