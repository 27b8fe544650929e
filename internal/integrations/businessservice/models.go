package businessservice

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Business модель бизнеса из BusinessService
type Business struct {
	ID                  string                 `json:"id"`
	Slug                string                 `json:"slug"`
	Name                string                 `json:"name"`
	Timezone            string                 `json:"timezone"`
	BusinessHours       map[string]DaySchedule `json:"businessHours"`
	ReservationSettings ReservationSettings    `json:"reservationSettings"`
	Services            []Service              `json:"services"`
	ManagerIDs          []int64                `json:"managerIds"`
}

// DaySchedule расписание одного дня недели
type DaySchedule struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  string  `json:"openTime"`
	CloseTime string  `json:"closeTime"`
	Breaks    []Break `json:"breaks"`
}

// Break перерыв внутри рабочего дня
type Break struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description,omitempty"`
}

// ReservationSettings политика бронирования
type ReservationSettings struct {
	MaxAdvanceBookingDays int `json:"maxAdvanceBookingDays"`
	MinNotificationHours  int `json:"minNotificationHours"`
	MaxDailyAppointments  int `json:"maxDailyAppointments"`
}

// Service услуга бизнеса (duration в минутах)
type Service struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	IsActive bool   `json:"isActive"`
}

// ErrorResponse модель ошибки от BusinessService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain конвертирует ответ сервиса в доменную модель.
// Неизвестные ключи дней недели пропускаются; время нормализуется к HH:MM,
// некорректное значение оставляется как есть и даёт закрытый день в движке.
func (b *Business) ToDomain() (*domain.Business, []error) {
	var problems []error

	hours := make(domain.BusinessHours, len(b.BusinessHours))
	for key, day := range b.BusinessHours {
		weekday, err := domain.ParseWeekday(key)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		schedule := domain.DaySchedule{
			IsOpen:    day.IsOpen,
			OpenTime:  normalizeTime(day.OpenTime),
			CloseTime: normalizeTime(day.CloseTime),
		}
		for _, br := range day.Breaks {
			schedule.Breaks = append(schedule.Breaks, domain.Break{
				StartTime:   normalizeTime(br.StartTime),
				EndTime:     normalizeTime(br.EndTime),
				Description: br.Description,
			})
		}
		if err := schedule.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", weekday, err))
		}
		hours[weekday] = schedule
	}

	services := make([]domain.Service, 0, len(b.Services))
	for _, s := range b.Services {
		services = append(services, domain.Service{
			ID:              s.ID,
			Name:            s.Name,
			DurationMinutes: s.Duration,
			IsActive:        s.IsActive,
		})
	}

	return &domain.Business{
		ID:       b.ID,
		Slug:     b.Slug,
		Name:     b.Name,
		Timezone: b.Timezone,
		Hours:    hours,
		Settings: domain.ReservationSettings{
			MaxAdvanceBookingDays: b.ReservationSettings.MaxAdvanceBookingDays,
			MinNotificationHours:  b.ReservationSettings.MinNotificationHours,
			MaxDailyAppointments:  b.ReservationSettings.MaxDailyAppointments,
		},
		Services:   services,
		ManagerIDs: b.ManagerIDs,
	}, problems
}

func normalizeTime(s string) types.TimeString {
	if s == "" {
		return ""
	}
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		return types.TimeString(s)
	}
	return ts
}
