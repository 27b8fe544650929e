package get_business_overrides

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
)

type OverrideService interface {
	List(ctx context.Context, req *models.ListOverridesRequest) (*models.OverrideListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
