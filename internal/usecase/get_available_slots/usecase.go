package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	businessClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

// UseCase use case для получения слотов на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	overrideRepo    OverrideRepository
	businessClient  BusinessServiceClient
	engine          Engine
	tracker         *availability.Tracker
	metrics         Metrics
	defaultTimezone string
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	overrideRepo OverrideRepository,
	businessClient BusinessServiceClient,
	engine Engine,
	tracker *availability.Tracker,
	metrics Metrics,
	defaultTimezone string,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		overrideRepo:    overrideRepo,
		businessClient:  businessClient,
		engine:          engine,
		tracker:         tracker,
		metrics:         metrics,
		defaultTimezone: defaultTimezone,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов.
// Недоступность внешних источников не является ошибкой: ответ помечается degraded.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%s, service=%s, staff=%s, date=%s",
		req.BusinessID, req.ServiceID, ptr.Value(req.StaffID), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Регистрируем расчёт в сессии выбора: предыдущий расчёт той же сессии отменяется
	var ticket availability.Ticket
	tracked := req.SessionID != "" && uc.tracker != nil
	if tracked {
		ctx, ticket = uc.tracker.Begin(ctx, req.SessionID)
		defer uc.tracker.Release(ticket)
	}

	started := time.Now()

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()

	var degraded []string

	// 4. Получаем бизнес
	business, err := uc.businessClient.GetBusinessWithGracefulDegradation(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business=%s not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		if !errors.Is(err, businessClient.ErrServiceDegraded) {
			uc.logger.Error("GetAvailableSlots: failed to get business=%s: %v", req.BusinessID, err)
			return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
		}
		degraded = append(degraded, DegradedBusinessUnavailable)
		business = nil
	}

	// 5. Часовой пояс бизнеса
	timezone := ""
	if business != nil {
		timezone = business.Timezone
	}
	loc, usedFallback, err := availability.ResolveLocation(timezone, uc.defaultTimezone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load timezone: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if usedFallback {
		uc.logger.Warn("GetAvailableSlots: unknown timezone %q for business=%s, using %s",
			timezone, req.BusinessID, uc.defaultTimezone)
		degraded = append(degraded, DegradedUnknownTimezone)
	}
	clock := availability.NewClock(loc)
	date := clock.Civil(req.Date)

	// 6. Валидация даты и услуги по настройкам бизнеса
	var (
		settings   domain.ReservationSettings
		duration   int
		businessID = req.BusinessID
	)
	if business != nil {
		businessID = business.ID
		settings = business.Settings

		service, ok := business.FindService(req.ServiceID)
		if !ok {
			uc.logger.Warn("GetAvailableSlots: service=%s not found in business=%s", req.ServiceID, businessID)
			return nil, ErrServiceNotFound
		}
		if !service.IsActive {
			uc.logger.Warn("GetAvailableSlots: service=%s is inactive", req.ServiceID)
			return nil, ErrServiceInactive
		}
		duration = service.DurationMinutes
	}

	if err := validateDate(date, clock.Today(now), settings.MaxAdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Исключения из расписания на дату
	var overrides []domain.BusinessHoursOverride
	if business != nil {
		overrides, err = uc.overrideRepo.ListByBusiness(ctx, businessID, &date, &date)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get overrides for business=%s: %v", businessID, err)
			degraded = append(degraded, DegradedOverridesUnavailable)
			overrides = nil
		}
	}

	// 8. Записи на дату. Берём соседние дни: записи, хранящиеся как момент времени,
	// могут попасть в соседнюю дату хранилища. Лишнее отбросит движок.
	from, to := date.AddDate(0, 0, -1), date.AddDate(0, 0, 1)
	appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(ctx, domain.AppointmentsFilter{
		BusinessID:      businessID,
		StartDate:       &from,
		EndDate:         &to,
		IncludeCanceled: true,
	})
	conflictsUnavailable := err != nil
	if conflictsUnavailable {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for business=%s: %v", businessID, err)
		degraded = append(degraded, DegradedAppointmentsUnavailable)
	}

	// 9. Пока шли запросы, сессия могла начать новый расчёт
	if tracked && !uc.tracker.IsCurrent(ticket) {
		uc.logger.Info("GetAvailableSlots: session=%s superseded, dropping result for %s",
			req.SessionID, date.Format(domain.DateFormat))
		uc.metrics.IncStaleSelection()
		return nil, ErrStaleSelection
	}

	// 10. Расчёт
	in := availability.Input{
		Date:                   date,
		Clock:                  clock,
		Now:                    now,
		Overrides:              overrides,
		Appointments:           appointments,
		ConflictsUnavailable:   conflictsUnavailable,
		ServiceDurationMinutes: duration,
		StaffID:                ptr.Value(req.StaffID),
		MinNotificationHours:   settings.MinNotificationHours,
	}
	if business != nil {
		in.Hours = business.Hours
		if in.Hours == nil {
			// бизнес без расписания закрыт, а не деградирован
			in.Hours = domain.BusinessHours{}
		}
	}
	res := uc.engine.Compute(ctx, in)

	uc.observe(res, degraded, time.Since(started))

	resp := &Response{
		BusinessID:        businessID,
		ServiceID:         req.ServiceID,
		StaffID:           req.StaffID,
		Date:              res.Date,
		Timezone:          res.Timezone,
		DurationMinutes:   duration,
		Closed:            res.Closed,
		HoursSource:       string(res.Window.Source),
		OverrideReason:    res.Window.OverrideReason,
		Degraded:          res.Degraded || len(degraded) > 0,
		DegradedReasons:   degraded,
		DailyLimitReached: settings.MaxDailyAppointments > 0 && res.ActiveAppointments >= settings.MaxDailyAppointments,
		SkippedRecords:    len(res.Warnings),
		Slots:             res.Slots,
	}
	if resp.DurationMinutes <= 0 {
		resp.DurationMinutes = uc.engine.Options().DefaultServiceDurationMinutes
	}

	uc.logger.Info("GetAvailableSlots: computed %d slots for business=%s, date=%s (closed=%t, degraded=%t)",
		len(resp.Slots), businessID, date.Format(domain.DateFormat), resp.Closed, resp.Degraded)

	return resp, nil
}

func (uc *UseCase) observe(res *availability.Result, degraded []string, elapsed time.Duration) {
	uc.metrics.ObserveSlots(res.CountByState())
	for _, reason := range degraded {
		uc.metrics.IncDegraded(reason)
	}

	byReason := make(map[availability.WarningReason]int)
	for _, w := range res.Warnings {
		byReason[w.Reason]++
	}
	for reason, n := range byReason {
		uc.metrics.AddMalformedAppointments(string(reason), n)
	}

	uc.metrics.ObserveCompute(elapsed, res.Degraded || len(degraded) > 0)
}
