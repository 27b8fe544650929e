package overrides

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// OverrideRepository интерфейс репозитория исключений из расписания
type OverrideRepository interface {
	ListByBusiness(ctx context.Context, businessID string, from, to *time.Time) ([]domain.BusinessHoursOverride, error)
	Upsert(ctx context.Context, o *domain.BusinessHoursOverride) (*domain.BusinessHoursOverride, error)
	DeleteByDate(ctx context.Context, businessID string, date time.Time) error
}

// BusinessServiceClient интерфейс клиента для BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, idOrSlug string) (*domain.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
