package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	storeClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/appointmentstore"
	"github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

// Источники отказа в записи
const (
	ConflictSourcePrecheck = "precheck"
	ConflictSourceStore    = "store"
)

// UseCase use case создания записи через хранилище.
// Окончательное решение о занятости слота принимает хранилище, здесь только
// предварительная проверка по свежему расчёту.
type UseCase struct {
	slots       SlotsUseCase
	storeClient AppointmentStoreClient
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slots SlotsUseCase,
	storeClient AppointmentStoreClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		slots:       slots,
		storeClient: storeClient,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%s, business=%s, service=%s, staff=%s, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, ptr.Value(req.StaffID),
		req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Свежий расчёт слотов на дату
	slotsReq := &get_available_slots.Request{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		Date:       req.Date,
	}
	current, err := uc.slots.Execute(ctx, slotsReq)
	if err != nil {
		uc.logger.Warn("CreateAppointment: failed to compute slots: %v", err)
		return nil, mapSlotsError(err)
	}

	// 3. Предварительная проверка. В деградированном режиме данных о занятости
	// может не быть, решение остаётся за хранилищем
	if !current.Degraded {
		slot, ok := current.Slot(req.StartTime.String())
		if !ok || !slot.Available {
			state := domain.SlotState("")
			if ok {
				state = slot.State
			}
			uc.logger.Warn("CreateAppointment: slot %s on %s is not available (state=%s)",
				req.StartTime, req.Date.Format(domain.DateFormat), state)
			uc.metrics.IncSlotConflict(ConflictSourcePrecheck)
			return nil, &SlotConflictError{
				Err:       ErrSlotNotAvailable,
				State:     state,
				Slots:     current.Slots,
				Refreshed: true,
			}
		}
	} else {
		uc.logger.Warn("CreateAppointment: slots are degraded (%v), skipping precheck", current.DegradedReasons)
	}

	// 4. Ключ идемпотентности: повтор запроса не создаст вторую запись
	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	// 5. Создаём запись в хранилище
	created, err := uc.storeClient.CreateAppointment(ctx, &domain.NewAppointment{
		BusinessID:     current.BusinessID,
		ServiceID:      req.ServiceID,
		StaffID:        req.StaffID,
		CustomerID:     req.CustomerID,
		Date:           current.Date,
		StartTime:      req.StartTime.String(),
		CustomerNotes:  req.CustomerNotes,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, uc.handleStoreError(ctx, slotsReq, req.StartTime.String(), err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%s", created.ID)

	return &Response{
		ID:              created.ID,
		BusinessID:      created.BusinessID,
		ServiceID:       created.ServiceID,
		StaffID:         created.StaffID,
		CustomerID:      created.CustomerID,
		Date:            created.Date,
		StartTime:       created.StartTime,
		DurationMinutes: created.DurationMinutes,
		Status:          created.Status,
		CustomerNotes:   created.CustomerNotes,
		IdempotencyKey:  key,
		Degraded:        current.Degraded,
	}, nil
}

// handleStoreError при конфликте пересчитывает слоты, чтобы вернуть клиенту актуальную сетку
func (uc *UseCase) handleStoreError(ctx context.Context, slotsReq *get_available_slots.Request, startTime string, err error) error {
	switch {
	case errors.Is(err, storeClient.ErrSlotTaken):
		uc.metrics.IncSlotConflict(ConflictSourceStore)
		conflict := &SlotConflictError{Err: ErrSlotConflict}

		refreshed, refreshErr := uc.slots.Execute(ctx, slotsReq)
		if refreshErr != nil {
			uc.logger.Error("CreateAppointment: failed to refresh slots after conflict: %v", refreshErr)
			return conflict
		}
		conflict.Slots = refreshed.Slots
		conflict.Refreshed = true
		if slot, ok := refreshed.Slot(startTime); ok {
			conflict.State = slot.State
		}
		uc.logger.Warn("CreateAppointment: store rejected slot, returning %d refreshed slots", len(refreshed.Slots))
		return conflict

	case errors.Is(err, storeClient.ErrPolicyRejected):
		uc.logger.Warn("CreateAppointment: rejected by policy: %v", err)
		return fmt.Errorf("%w: %v", ErrPolicyRejected, err)

	case errors.Is(err, storeClient.ErrInvalidRequest):
		uc.logger.Warn("CreateAppointment: store rejected request: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)

	default:
		uc.logger.Error("CreateAppointment: appointment store error: %v", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
