package create_appointment

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID == "" {
		return fmt.Errorf("%w: customerId is required", ErrInvalidInput)
	}

	if req.BusinessID == "" {
		return fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}

	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.CustomerNotes != nil && utf8.RuneCountInString(*req.CustomerNotes) > domain.MaxCustomerNotesLength {
		return fmt.Errorf("%w: customerNotes must not exceed %d characters", ErrInvalidInput, domain.MaxCustomerNotesLength)
	}

	return nil
}

// mapSlotsError переводит ошибки расчёта слотов в ошибки этого use case
func mapSlotsError(err error) error {
	switch {
	case errors.Is(err, get_available_slots.ErrBusinessNotFound):
		return ErrBusinessNotFound
	case errors.Is(err, get_available_slots.ErrServiceNotFound):
		return ErrServiceNotFound
	case errors.Is(err, get_available_slots.ErrServiceInactive):
		return ErrServiceInactive
	case errors.Is(err, get_available_slots.ErrInvalidDate):
		return ErrInvalidDate
	case errors.Is(err, get_available_slots.ErrDateTooFarInFuture):
		return fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
	case errors.Is(err, get_available_slots.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}
}
