package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей (только чтение)
type AppointmentRepository interface {
	GetByBusinessWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]domain.Appointment, error)
}

// OverrideRepository интерфейс репозитория исключений из расписания
type OverrideRepository interface {
	ListByBusiness(ctx context.Context, businessID string, from, to *time.Time) ([]domain.BusinessHoursOverride, error)
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusinessWithGracefulDegradation(ctx context.Context, idOrSlug string) (*domain.Business, error)
}

// Engine движок расчёта слотов
type Engine interface {
	Compute(ctx context.Context, in availability.Input) *availability.Result
	Options() availability.Options
}

// Metrics метрики расчёта
type Metrics interface {
	ObserveSlots(countByState map[string]int)
	IncDegraded(reason string)
	AddMalformedAppointments(reason string, n int)
	IncStaleSelection()
	ObserveCompute(d time.Duration, degraded bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
