package domain

import "github.com/m04kA/SMC-AvailabilityService/pkg/types"

// SlotState explains why a slot is or is not bookable
type SlotState string

const (
	SlotAvailable        SlotState = "AVAILABLE"
	SlotOccupied         SlotState = "OCCUPIED"
	SlotInsufficientTime SlotState = "INSUFFICIENT_TIME"
	SlotPast             SlotState = "PAST"
	SlotBeyondHours      SlotState = "BEYOND_HOURS"
)

// SlotStates all states in display order
var SlotStates = []SlotState{SlotAvailable, SlotOccupied, SlotInsufficientTime, SlotPast, SlotBeyondHours}

// TimeSlot candidate start time with its classification.
// Available is true exactly when State is SlotAvailable.
type TimeSlot struct {
	Time                     types.TimeString
	Available                bool
	State                    SlotState
	ConflictingAppointmentID string
}

// BlockedRange busy interval in minutes since business-local midnight, half-open [Start, End).
// Breaks are represented with an empty AppointmentID.
type BlockedRange struct {
	Start         int
	End           int
	AppointmentID string
}

// Overlaps reports whether [start, end) intersects the range
func (r BlockedRange) Overlaps(start, end int) bool {
	return start < r.End && r.Start < end
}
