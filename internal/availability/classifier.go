package availability

import (
	"sort"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Classify decides the state of a candidate start.
// Precedence: BEYOND_HOURS, then OCCUPIED, then INSUFFICIENT_TIME, else AVAILABLE.
// ranges must be sorted by Start. An end equal to the next range start is not a conflict.
func Classify(start, duration, closeMinutes int, ranges []domain.BlockedRange) domain.TimeSlot {
	slot := domain.TimeSlot{Time: types.MustFromMinutes(start)}
	end := start + duration

	if end > closeMinutes {
		slot.State = domain.SlotBeyondHours
		return slot
	}

	for _, r := range ranges {
		if r.Start > start {
			break
		}
		if start < r.End {
			slot.State = domain.SlotOccupied
			slot.ConflictingAppointmentID = r.AppointmentID
			return slot
		}
	}

	next := sort.Search(len(ranges), func(i int) bool { return ranges[i].Start > start })
	if next < len(ranges) && ranges[next].Overlaps(start, end) {
		slot.State = domain.SlotInsufficientTime
		slot.ConflictingAppointmentID = ranges[next].AppointmentID
		return slot
	}

	slot.State = domain.SlotAvailable
	slot.Available = true
	return slot
}
