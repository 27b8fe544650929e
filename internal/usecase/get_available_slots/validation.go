package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID == "" {
		return fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}

	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID == "" {
		return fmt.Errorf("%w: staffId must not be empty", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет дату относительно сегодняшней даты бизнеса.
// Обе даты должны быть полуночью в часовом поясе бизнеса.
func validateDate(date, today time.Time, maxAdvanceBookingDays int) error {
	if date.Before(today) {
		return ErrInvalidDate
	}

	// Если maxAdvanceBookingDays = 0, нет ограничений на дату
	if maxAdvanceBookingDays == 0 {
		return nil
	}

	maxDate := today.AddDate(0, 0, maxAdvanceBookingDays)
	if date.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceBookingDays)
	}

	return nil
}
