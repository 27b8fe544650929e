package create_appointment

import (
	"errors"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("service is inactive")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrSlotNotAvailable возвращается, когда по свежему расчёту слот недоступен
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrSlotConflict возвращается, когда хранилище отклонило слот, считавшийся свободным
	ErrSlotConflict = errors.New("slot was taken by another booking")

	// ErrPolicyRejected возвращается, когда хранилище отклонило запись по политике бизнеса
	ErrPolicyRejected = errors.New("appointment rejected by reservation policy")

	// ErrStoreUnavailable возвращается, когда хранилище записей недоступно
	ErrStoreUnavailable = errors.New("appointment store unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

// SlotConflictError отказ в записи вместе с актуальной сеткой слотов,
// чтобы клиент мог сразу предложить другое время
type SlotConflictError struct {
	Err       error // ErrSlotNotAvailable или ErrSlotConflict
	State     domain.SlotState
	Slots     []domain.TimeSlot
	Refreshed bool // false, если повторный расчёт не удался
}

func (e *SlotConflictError) Error() string {
	if e.State != "" {
		return e.Err.Error() + ": " + string(e.State)
	}
	return e.Err.Error()
}

func (e *SlotConflictError) Unwrap() error {
	return e.Err
}
