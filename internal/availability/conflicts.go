package availability

import (
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// WarningReason why an appointment was left out of the conflict index
type WarningReason string

const (
	ReasonUnparseableStart WarningReason = "unparseable_start"
	ReasonInvalidDuration  WarningReason = "invalid_duration"
)

// Warning non-fatal data problem found while building the index
type Warning struct {
	AppointmentID string
	Reason        WarningReason
	Value         string
}

// ConflictIndex busy ranges of one date, sorted by start
type ConflictIndex struct {
	Ranges   []domain.BlockedRange
	Warnings []Warning
	// Active non-canceled appointments on the date across all staff
	Active int
}

// BuildConflictIndex turns appointments into sorted blocked ranges for date.
// Canceled appointments are dropped. With a non-empty staffID only that staff's
// appointments (and unassigned ones) block. Malformed entries are skipped and reported.
func BuildConflictIndex(appointments []domain.Appointment, date time.Time, clock *Clock, staffID string) ConflictIndex {
	idx := ConflictIndex{Ranges: make([]domain.BlockedRange, 0, len(appointments))}

	for i := range appointments {
		a := &appointments[i]
		if !a.IsActive() {
			continue
		}

		start, onDate, err := clock.ParseStamp(date, a.StartTime)
		if err != nil {
			idx.Warnings = append(idx.Warnings, Warning{AppointmentID: a.ID, Reason: ReasonUnparseableStart, Value: a.StartTime})
			continue
		}
		if !onDate || !recordedOn(a, date) {
			continue
		}

		duration := a.DurationMinutes
		if duration <= 0 {
			duration = durationFromEnd(clock, date, start, a.EndTime)
		}
		if duration <= 0 {
			idx.Warnings = append(idx.Warnings, Warning{AppointmentID: a.ID, Reason: ReasonInvalidDuration, Value: a.EndTime})
			continue
		}

		idx.Active++

		if staffID != "" && a.StaffID != "" && a.StaffID != staffID {
			continue
		}

		idx.Ranges = append(idx.Ranges, domain.BlockedRange{
			Start:         start,
			End:           start + duration,
			AppointmentID: a.ID,
		})
	}

	sort.SliceStable(idx.Ranges, func(i, j int) bool { return idx.Ranges[i].Start < idx.Ranges[j].Start })

	return idx
}

func durationFromEnd(clock *Clock, date time.Time, start int, rawEnd string) int {
	if rawEnd == "" {
		return 0
	}
	end, _, err := clock.ParseStamp(date, rawEnd)
	if err != nil {
		return 0
	}
	return end - start
}

// recordedOn: wall-clock "HH:MM" carries no date, so the record's Date decides.
// Instants are already checked against date by ParseStamp.
func recordedOn(a *domain.Appointment, date time.Time) bool {
	if a.Date.IsZero() {
		return true
	}
	if _, err := types.NewTimeStringFromString(strings.TrimSpace(a.StartTime)); err != nil {
		return true
	}
	return sameDate(a.Date, date)
}
