package upsert_business_override

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
)

type OverrideService interface {
	Upsert(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
