package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// WindowSource where the effective hours of a day came from
type WindowSource string

const (
	SourceWeekday  WindowSource = "weekday"
	SourceOverride WindowSource = "override"
	SourceFallback WindowSource = "fallback"
)

// Interval half-open range of minutes since local midnight
type Interval struct {
	Start int
	End   int
}

// DayWindow effective working hours of one date in minutes since local midnight
type DayWindow struct {
	Open           bool
	Start          int
	End            int
	Breaks         []Interval
	Source         WindowSource
	OverrideReason string
}

// ResolveHours returns the effective hours for date.
// A non-expired override for the exact date replaces the weekday entry entirely;
// a missing or malformed entry resolves to closed. An open entry without a close
// time closes at defaultClose (minutes since midnight).
func ResolveHours(hours domain.BusinessHours, overrides []domain.BusinessHoursOverride, date, now time.Time, defaultClose int) DayWindow {
	if o := pickOverride(overrides, date, now); o != nil {
		w := windowFromSchedule(o.Schedule(), SourceOverride, defaultClose)
		w.OverrideReason = o.Reason
		return w
	}

	sched, ok := hours[domain.WeekdayOf(date)]
	if !ok {
		return DayWindow{Source: SourceWeekday}
	}
	return windowFromSchedule(sched, SourceWeekday, defaultClose)
}

// FallbackWindow generic open-hours grid used when the business record is unavailable
func FallbackWindow(openAt, closeAt types.TimeString) DayWindow {
	return windowFromSchedule(domain.DaySchedule{IsOpen: true, OpenTime: openAt, CloseTime: closeAt}, SourceFallback, -1)
}

func pickOverride(overrides []domain.BusinessHoursOverride, date, now time.Time) *domain.BusinessHoursOverride {
	var picked *domain.BusinessHoursOverride
	for i := range overrides {
		o := &overrides[i]
		if !sameDate(o.Date, date) || o.IsExpired(now) {
			continue
		}
		// при дублях побеждает последнее изменённое
		if picked == nil || o.UpdatedAt.After(picked.UpdatedAt) {
			picked = o
		}
	}
	return picked
}

func windowFromSchedule(s domain.DaySchedule, source WindowSource, defaultClose int) DayWindow {
	closed := DayWindow{Source: source}
	if !s.IsOpen {
		return closed
	}

	openAt, closeAt := s.OpenTime.Minutes(), s.CloseTime.Minutes()
	if s.CloseTime.IsZero() {
		closeAt = defaultClose
	}
	if openAt < 0 || closeAt < 0 || openAt >= closeAt {
		return closed
	}

	w := DayWindow{Open: true, Start: openAt, End: closeAt, Source: source}
	for _, b := range s.Breaks {
		start, end := b.StartTime.Minutes(), b.EndTime.Minutes()
		if start < 0 || end <= start {
			continue
		}
		start, end = max(start, openAt), min(end, closeAt)
		if start >= end {
			continue
		}
		w.Breaks = append(w.Breaks, Interval{Start: start, End: end})
	}
	sort.Slice(w.Breaks, func(i, j int) bool { return w.Breaks[i].Start < w.Breaks[j].Start })

	return w
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
