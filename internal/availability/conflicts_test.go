package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

func TestBuildConflictIndex(t *testing.T) {
	clock := NewClock(istanbul(t))

	appointments := []domain.Appointment{
		{ID: "late", StartTime: "15:00", DurationMinutes: 30, Status: domain.AppointmentConfirmed},
		{ID: "canceled", StartTime: "11:00", DurationMinutes: 60, Status: domain.AppointmentCanceled},
		{ID: "broken", StartTime: "around noon", DurationMinutes: 30, Status: domain.AppointmentPending},
		{ID: "instant", StartTime: "2024-03-15T07:00:00Z", DurationMinutes: 45, Status: domain.AppointmentPending},
		{ID: "by-end", StartTime: "12:00", EndTime: "12:45", Status: domain.AppointmentConfirmed},
		{ID: "no-duration", StartTime: "16:00", Status: domain.AppointmentConfirmed},
		{ID: "yesterday", StartTime: "2024-03-14T08:00:00Z", DurationMinutes: 30, Status: domain.AppointmentConfirmed},
	}

	idx := BuildConflictIndex(appointments, clock.Civil(testDate), clock, "")

	require.Len(t, idx.Ranges, 3)
	assert.Equal(t, domain.BlockedRange{Start: 600, End: 645, AppointmentID: "instant"}, idx.Ranges[0])
	assert.Equal(t, domain.BlockedRange{Start: 720, End: 765, AppointmentID: "by-end"}, idx.Ranges[1])
	assert.Equal(t, domain.BlockedRange{Start: 900, End: 930, AppointmentID: "late"}, idx.Ranges[2])
	assert.Equal(t, 3, idx.Active)

	require.Len(t, idx.Warnings, 2)
	assert.Equal(t, Warning{AppointmentID: "broken", Reason: ReasonUnparseableStart, Value: "around noon"}, idx.Warnings[0])
	assert.Equal(t, "no-duration", idx.Warnings[1].AppointmentID)
	assert.Equal(t, ReasonInvalidDuration, idx.Warnings[1].Reason)
}

func TestBuildConflictIndex_StaffFilter(t *testing.T) {
	clock := NewClock(istanbul(t))

	appointments := []domain.Appointment{
		{ID: "anna", StaffID: "anna", StartTime: "10:00", DurationMinutes: 30, Status: domain.AppointmentConfirmed},
		{ID: "boris", StaffID: "boris", StartTime: "11:00", DurationMinutes: 30, Status: domain.AppointmentConfirmed},
		{ID: "anyone", StartTime: "12:00", DurationMinutes: 30, Status: domain.AppointmentConfirmed},
	}

	idx := BuildConflictIndex(appointments, testDate, clock, "anna")

	require.Len(t, idx.Ranges, 2)
	assert.Equal(t, "anna", idx.Ranges[0].AppointmentID)
	assert.Equal(t, "anyone", idx.Ranges[1].AppointmentID)
	assert.Equal(t, 3, idx.Active, "daily count ignores the staff filter")

	all := BuildConflictIndex(appointments, testDate, clock, "")
	assert.Len(t, all.Ranges, 3)
}

func TestBuildConflictIndex_DuplicatesTolerated(t *testing.T) {
	clock := NewClock(istanbul(t))
	appointments := []domain.Appointment{
		{ID: "a", StartTime: "10:00", DurationMinutes: 30, Status: domain.AppointmentConfirmed},
		{ID: "a", StartTime: "10:00", DurationMinutes: 30, Status: domain.AppointmentConfirmed},
	}

	idx := BuildConflictIndex(appointments, testDate, clock, "")

	assert.Len(t, idx.Ranges, 2)
}

func TestBuildConflictIndex_Empty(t *testing.T) {
	idx := BuildConflictIndex(nil, testDate, NewClock(nil), "")
	assert.NotNil(t, idx.Ranges)
	assert.Empty(t, idx.Ranges)
	assert.Empty(t, idx.Warnings)
}

func TestBuildConflictIndex_NeighbouringDays(t *testing.T) {
	clock := NewClock(istanbul(t))
	date := clock.Civil(testDate)
	yesterday := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		appointment domain.Appointment
		blocks      bool
	}{
		{
			name:        "clock time dated yesterday",
			appointment: domain.Appointment{Date: yesterday, StartTime: "10:00"},
		},
		{
			name:        "clock time dated tomorrow",
			appointment: domain.Appointment{Date: tomorrow, StartTime: "10:00"},
		},
		{
			name:        "clock time dated today",
			appointment: domain.Appointment{Date: testDate, StartTime: "10:00"},
			blocks:      true,
		},
		{
			name:        "clock time without date",
			appointment: domain.Appointment{StartTime: "10:00"},
			blocks:      true,
		},
		{
			name:        "instant on yesterday",
			appointment: domain.Appointment{Date: yesterday, StartTime: "2024-03-14T07:00:00Z"},
		},
		{
			name:        "instant on tomorrow",
			appointment: domain.Appointment{Date: tomorrow, StartTime: "2024-03-16T07:00:00Z"},
		},
		{
			// 22:00 UTC 14-го это 01:00 15-го по Стамбулу
			name:        "instant crossing midnight into today",
			appointment: domain.Appointment{Date: yesterday, StartTime: "2024-03-14T22:00:00Z"},
			blocks:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.appointment
			a.ID = "neighbour"
			a.DurationMinutes = 30
			a.Status = domain.AppointmentConfirmed

			idx := BuildConflictIndex([]domain.Appointment{a}, date, clock, "")

			assert.Empty(t, idx.Warnings)
			if !tt.blocks {
				assert.Empty(t, idx.Ranges)
				assert.Equal(t, 0, idx.Active)
				return
			}
			require.Len(t, idx.Ranges, 1)
			assert.Equal(t, "neighbour", idx.Ranges[0].AppointmentID)
			assert.Equal(t, 1, idx.Active)
		})
	}
}

func TestBuildConflictIndex_YesterdayKeepsSlotAvailable(t *testing.T) {
	clock := NewClock(istanbul(t))
	appointments := []domain.Appointment{
		{
			ID:              "yesterday",
			Date:            time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			StartTime:       "10:00",
			DurationMinutes: 60,
			Status:          domain.AppointmentConfirmed,
		},
	}

	idx := BuildConflictIndex(appointments, clock.Civil(testDate), clock, "")
	slot := Classify(10*60, 30, 18*60, idx.Ranges)

	assert.Equal(t, domain.SlotAvailable, slot.State)
	assert.Empty(t, slot.ConflictingAppointmentID)
	assert.Equal(t, 0, idx.Active)
}
