package create_appointment

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

// SlotsUseCase расчёт слотов на дату
type SlotsUseCase interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// AppointmentStoreClient интерфейс клиента API записи хранилища
type AppointmentStoreClient interface {
	CreateAppointment(ctx context.Context, a *domain.NewAppointment) (*domain.Appointment, error)
}

// Metrics метрики отказов в записи
type Metrics interface {
	IncSlotConflict(source string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
