package models

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модели

// UpsertOverrideRequest запрос на создание/замену исключения на дату.
// UserID, BusinessID и Date берутся из заголовка и пути, а не из тела.
type UpsertOverrideRequest struct {
	UserID     int64      `json:"-"`
	BusinessID string     `json:"-"`
	Date       string     `json:"-"`
	IsOpen     bool       `json:"isOpen"`
	OpenTime   *string    `json:"openTime,omitempty"`
	CloseTime  *string    `json:"closeTime,omitempty"` // nil = закрытие по умолчанию
	Breaks     []Break    `json:"breaks,omitempty"`
	Reason     string     `json:"reason"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// ListOverridesRequest запрос на получение исключений за период
type ListOverridesRequest struct {
	UserID     int64
	BusinessID string
	From       *string // YYYY-MM-DD, включительно
	To         *string
}

// DeleteOverrideRequest запрос на удаление исключения
type DeleteOverrideRequest struct {
	UserID     int64
	BusinessID string
	Date       string
}

// Break перерыв внутри рабочего дня
type Break struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// Response модели

// OverrideResponse ответ с данными исключения
type OverrideResponse struct {
	ID         int64      `json:"id"`
	BusinessID string     `json:"businessId"`
	Date       string     `json:"date"`
	IsOpen     bool       `json:"isOpen"`
	OpenTime   *string    `json:"openTime,omitempty"`
	CloseTime  *string    `json:"closeTime,omitempty"`
	Breaks     []Break    `json:"breaks"`
	Reason     string     `json:"reason"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedBy  int64      `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// OverrideListResponse ответ со списком исключений
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
}

// Методы конвертации

// FromDomainOverride конвертирует domain модель в DTO
func FromDomainOverride(o *domain.BusinessHoursOverride) *OverrideResponse {
	if o == nil {
		return nil
	}

	resp := &OverrideResponse{
		ID:         o.ID,
		BusinessID: o.BusinessID,
		Date:       o.Date.Format(domain.DateFormat),
		IsOpen:     o.IsOpen,
		OpenTime:   timePtr(o.OpenTime),
		CloseTime:  timePtr(o.CloseTime),
		Breaks:     make([]Break, 0, len(o.Breaks)),
		Reason:     o.Reason,
		ExpiresAt:  o.ExpiresAt,
		CreatedBy:  o.CreatedBy,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	for _, b := range o.Breaks {
		resp.Breaks = append(resp.Breaks, Break{
			StartTime:   b.StartTime.String(),
			EndTime:     b.EndTime.String(),
			Description: b.Description,
		})
	}
	return resp
}

// FromDomainOverrideList конвертирует список domain моделей в DTO
func FromDomainOverrideList(overrides []domain.BusinessHoursOverride) *OverrideListResponse {
	resp := &OverrideListResponse{
		Overrides: make([]OverrideResponse, 0, len(overrides)),
	}
	for i := range overrides {
		resp.Overrides = append(resp.Overrides, *FromDomainOverride(&overrides[i]))
	}
	return resp
}

// ToDomainOverride конвертирует запрос в domain модель.
// Время должно быть предварительно провалидировано.
func (r *UpsertOverrideRequest) ToDomainOverride(businessID string, date time.Time) *domain.BusinessHoursOverride {
	o := &domain.BusinessHoursOverride{
		BusinessID: businessID,
		Date:       date,
		IsOpen:     r.IsOpen,
		Reason:     r.Reason,
		ExpiresAt:  r.ExpiresAt,
		CreatedBy:  r.UserID,
	}
	if r.IsOpen {
		o.OpenTime = parseTimePtr(r.OpenTime)
		o.CloseTime = parseTimePtr(r.CloseTime)
		for _, b := range r.Breaks {
			o.Breaks = append(o.Breaks, domain.Break{
				StartTime:   mustTime(b.StartTime),
				EndTime:     mustTime(b.EndTime),
				Description: b.Description,
			})
		}
	}
	return o
}

func timePtr(t *types.TimeString) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func parseTimePtr(s *string) *types.TimeString {
	if s == nil || *s == "" {
		return nil
	}
	t := mustTime(*s)
	return &t
}

func mustTime(s string) types.TimeString {
	t, err := types.NewTimeStringFromString(s)
	if err != nil {
		return types.TimeString(s)
	}
	return t
}
