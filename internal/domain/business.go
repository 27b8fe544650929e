package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Weekday day of week, numbered like time.Weekday (Sunday = 0).
// The same enum is used for business hours keys and for date lookups.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// AllWeekdays weekdays in calendar order starting from Monday
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// IsValid reports whether d is one of the seven days
func (d Weekday) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

// ParseWeekday accepts lowercase or capitalized english day names and three-letter abbreviations
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range AllWeekdays {
		name := weekdayNames[d]
		if key == name || (len(key) == 3 && strings.HasPrefix(name, key)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// WeekdayOf returns the weekday of a civil date
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday())
}

// Break is a non-bookable window inside working hours
type Break struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	Description string
}

// Validate checks that the break is well formed
func (b Break) Validate() error {
	if err := b.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: break start: %v", ErrInvalidSchedule, err)
	}
	if err := b.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: break end: %v", ErrInvalidSchedule, err)
	}
	if !b.EndTime.IsAfter(b.StartTime) {
		return fmt.Errorf("%w: break %s-%s ends before it starts", ErrInvalidSchedule, b.StartTime, b.EndTime)
	}
	return nil
}

// DaySchedule working hours of a single weekday
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
	Breaks    []Break
}

// Validate checks open < close and that every break lies inside the window
func (s DaySchedule) Validate() error {
	if !s.IsOpen {
		return nil
	}
	if err := s.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: open time: %v", ErrInvalidSchedule, err)
	}
	if err := s.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: close time: %v", ErrInvalidSchedule, err)
	}
	if !s.OpenTime.IsBefore(s.CloseTime) {
		return fmt.Errorf("%w: open %s is not before close %s", ErrInvalidSchedule, s.OpenTime, s.CloseTime)
	}
	for _, b := range s.Breaks {
		if err := b.Validate(); err != nil {
			return err
		}
		if b.StartTime.IsBefore(s.OpenTime) || b.EndTime.IsAfter(s.CloseTime) {
			return fmt.Errorf("%w: break %s-%s is outside working hours", ErrInvalidSchedule, b.StartTime, b.EndTime)
		}
	}
	return nil
}

// BusinessHours weekly schedule. A missing weekday means closed.
type BusinessHours map[Weekday]DaySchedule

// BusinessHoursOverride replaces the weekly schedule for one calendar date
type BusinessHoursOverride struct {
	ID         int64
	BusinessID string
	Date       time.Time
	IsOpen     bool
	OpenTime   *types.TimeString
	CloseTime  *types.TimeString
	Breaks     []Break
	Reason     string
	ExpiresAt  *time.Time
	CreatedBy  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsExpired reports whether the override no longer applies at now
func (o *BusinessHoursOverride) IsExpired(now time.Time) bool {
	return o.ExpiresAt != nil && now.After(*o.ExpiresAt)
}

// Schedule converts the override into a DaySchedule
func (o *BusinessHoursOverride) Schedule() DaySchedule {
	s := DaySchedule{IsOpen: o.IsOpen, Breaks: o.Breaks}
	if o.OpenTime != nil {
		s.OpenTime = *o.OpenTime
	}
	if o.CloseTime != nil {
		s.CloseTime = *o.CloseTime
	}
	return s
}

// Service bookable offering of a business
type Service struct {
	ID              string
	Name            string
	DurationMinutes int
	IsActive        bool
}

// ReservationSettings booking policy of a business. Zero values mean "no limit".
type ReservationSettings struct {
	MaxAdvanceBookingDays int
	MinNotificationHours  int
	MaxDailyAppointments  int
}

// Business snapshot of a business as returned by the business service
type Business struct {
	ID         string
	Slug       string
	Name       string
	Timezone   string
	Hours      BusinessHours
	Settings   ReservationSettings
	Services   []Service
	ManagerIDs []int64
}

// FindService returns the service with the given id
func (b *Business) FindService(serviceID string) (*Service, bool) {
	for i := range b.Services {
		if b.Services[i].ID == serviceID {
			return &b.Services[i], true
		}
	}
	return nil, false
}

// IsManager reports whether userID may manage the business
func (b *Business) IsManager(userID int64) bool {
	for _, id := range b.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
