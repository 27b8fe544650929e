package overrides

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, s)
	}
	return date, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	date, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func validateRange(from, to *time.Time) error {
	if from == nil || to == nil {
		return nil
	}
	if to.Before(*from) {
		return fmt.Errorf("%w: 'to' must not be before 'from'", ErrInvalidInput)
	}
	if to.Sub(*from) > time.Duration(domain.MaxOverrideRangeDays)*24*time.Hour {
		return fmt.Errorf("%w: range must not exceed %d days", ErrInvalidInput, domain.MaxOverrideRangeDays)
	}
	return nil
}

// validateUpsert проверяет окно и перерывы. Закрытие без времени допустимо:
// движок подставит время закрытия по умолчанию.
func validateUpsert(req *models.UpsertOverrideRequest) error {
	if req.BusinessID == "" {
		return fmt.Errorf("%w: business id is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Reason) > domain.MaxOverrideReasonLength {
		return fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxOverrideReasonLength)
	}

	if !req.IsOpen {
		return nil
	}

	if req.OpenTime == nil || *req.OpenTime == "" {
		return fmt.Errorf("%w: openTime is required when isOpen is true", ErrInvalidInput)
	}
	openTime, err := types.NewTimeStringFromString(*req.OpenTime)
	if err != nil {
		return fmt.Errorf("%w: openTime: %v", ErrInvalidInput, err)
	}

	schedule := domain.DaySchedule{IsOpen: true, OpenTime: openTime, CloseTime: domain.DefaultCloseTime}
	if req.CloseTime != nil && *req.CloseTime != "" {
		closeTime, err := types.NewTimeStringFromString(*req.CloseTime)
		if err != nil {
			return fmt.Errorf("%w: closeTime: %v", ErrInvalidInput, err)
		}
		schedule.CloseTime = closeTime
	}
	if !schedule.CloseTime.IsAfter(schedule.OpenTime) {
		return fmt.Errorf("%w: closeTime must be after openTime", ErrInvalidInput)
	}

	for _, b := range req.Breaks {
		start, err := types.NewTimeStringFromString(b.StartTime)
		if err != nil {
			return fmt.Errorf("%w: break startTime: %v", ErrInvalidInput, err)
		}
		end, err := types.NewTimeStringFromString(b.EndTime)
		if err != nil {
			return fmt.Errorf("%w: break endTime: %v", ErrInvalidInput, err)
		}
		schedule.Breaks = append(schedule.Breaks, domain.Break{StartTime: start, EndTime: end})
	}

	if err := schedule.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
