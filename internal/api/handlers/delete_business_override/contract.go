package delete_business_override

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
)

type OverrideService interface {
	Delete(ctx context.Context, req *models.DeleteOverrideRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
