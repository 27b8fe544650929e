package upsert_business_override

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
)

// UpsertOverrideRequest HTTP request model
type UpsertOverrideRequest struct {
	IsOpen    bool           `json:"isOpen"`
	OpenTime  *string        `json:"openTime,omitempty"`
	CloseTime *string        `json:"closeTime,omitempty"`
	Breaks    []models.Break `json:"breaks,omitempty"`
	Reason    string         `json:"reason"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpsertOverrideRequest) ToServiceRequest(userID int64, businessID, date string) *models.UpsertOverrideRequest {
	return &models.UpsertOverrideRequest{
		UserID:     userID,
		BusinessID: businessID,
		Date:       date,
		IsOpen:     r.IsOpen,
		OpenTime:   r.OpenTime,
		CloseTime:  r.CloseTime,
		Breaks:     r.Breaks,
		Reason:     r.Reason,
		ExpiresAt:  r.ExpiresAt,
	}
}
