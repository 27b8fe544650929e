package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// ErrUnparseableTime returned for appointment times that are neither "HH:MM" nor an RFC 3339 instant
var ErrUnparseableTime = errors.New("availability: unparseable time")

// ResolveLocation loads the business timezone. An empty or unknown name falls back
// to fallback; usedFallback is true in the unknown case so the caller can report it.
func ResolveLocation(name, fallback string) (loc *time.Location, usedFallback bool, err error) {
	if strings.TrimSpace(name) != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc, false, nil
		}
		usedFallback = true
	}

	loc, err = time.LoadLocation(fallback)
	if err != nil {
		return nil, usedFallback, fmt.Errorf("availability: load fallback timezone %q: %w", fallback, err)
	}
	return loc, usedFallback, nil
}

// Clock converts between absolute instants and business-local civil time
type Clock struct {
	loc *time.Location
}

// NewClock creates a clock for loc. A nil loc means UTC.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc}
}

// Location business timezone
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Name timezone name
func (c *Clock) Name() string {
	return c.loc.String()
}

// Civil returns business-local midnight of the calendar date carried by date.
// Only year, month and day of date are used.
func (c *Clock) Civil(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// Today business-local calendar date of an instant
func (c *Clock) Today(now time.Time) time.Time {
	return c.Civil(now.In(c.loc))
}

// MinutesOf wall-clock minutes since local midnight of an instant
func (c *Clock) MinutesOf(t time.Time) int {
	local := t.In(c.loc)
	return local.Hour()*60 + local.Minute()
}

// At instant of a business-local (date, minutes since midnight)
func (c *Clock) At(date time.Time, minutes int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, c.loc)
}

// ParseStamp converts a stored appointment time into minutes since local midnight.
// "HH:MM" values are already business-local and report onDate=true, the caller
// matches them by the record's own date. Instants are converted and onDate
// reports whether they fall on the same local calendar date.
func (c *Clock) ParseStamp(date time.Time, raw string) (minutes int, onDate bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, fmt.Errorf("%w: empty value", ErrUnparseableTime)
	}

	if ts, err := types.NewTimeStringFromString(raw); err == nil {
		return ts.Minutes(), true, nil
	}

	instant, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		// без зоны считаем время локальным для бизнеса
		instant, err = time.ParseInLocation("2006-01-02T15:04:05", raw, c.loc)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q", ErrUnparseableTime, raw)
		}
	}

	return c.MinutesOf(instant), sameDate(instant.In(c.loc), date), nil
}
