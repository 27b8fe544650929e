package overrides

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	overrideRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/override"
	businessClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/businessservice"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/overrides/models"
)

// Service сервис управления исключениями из расписания бизнеса
type Service struct {
	overrideRepo   OverrideRepository
	businessClient BusinessServiceClient
	logger         Logger
}

// NewService создает новый экземпляр сервиса исключений
func NewService(
	overrideRepo OverrideRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *Service {
	return &Service{
		overrideRepo:   overrideRepo,
		businessClient: businessClient,
		logger:         logger,
	}
}

// List получает исключения бизнеса за период
// Доступно только менеджерам бизнеса
func (s *Service) List(ctx context.Context, req *models.ListOverridesRequest) (*models.OverrideListResponse, error) {
	s.logger.Info("List: fetching overrides for business=%s by user=%d", req.BusinessID, req.UserID)

	// 1. Валидируем период
	from, err := parseOptionalDate(req.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(req.To)
	if err != nil {
		return nil, err
	}
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	// 2. Проверяем права доступа
	business, err := s.authorize(ctx, "List", req.BusinessID, req.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Получаем исключения
	overrides, err := s.overrideRepo.ListByBusiness(ctx, business.ID, from, to)
	if err != nil {
		s.logger.Error("List: repository error for business=%s: %v", business.ID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d overrides for business=%s", len(overrides), business.ID)
	return models.FromDomainOverrideList(overrides), nil
}

// Upsert создает или заменяет исключение на дату
// Доступно только менеджерам бизнеса
func (s *Service) Upsert(ctx context.Context, req *models.UpsertOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("Upsert: saving override for business=%s, date=%s by user=%d", req.BusinessID, req.Date, req.UserID)

	// 1. Валидируем входные данные
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validateUpsert(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	business, err := s.authorize(ctx, "Upsert", req.BusinessID, req.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем исключение
	saved, err := s.overrideRepo.Upsert(ctx, req.ToDomainOverride(business.ID, date))
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved override id=%d (open=%t)", saved.ID, saved.IsOpen)
	return models.FromDomainOverride(saved), nil
}

// Delete удаляет исключение на дату
// Доступно только менеджерам бизнеса
func (s *Service) Delete(ctx context.Context, req *models.DeleteOverrideRequest) error {
	s.logger.Info("Delete: deleting override for business=%s, date=%s by user=%d", req.BusinessID, req.Date, req.UserID)

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	business, err := s.authorize(ctx, "Delete", req.BusinessID, req.UserID)
	if err != nil {
		return err
	}

	if err := s.overrideRepo.DeleteByDate(ctx, business.ID, date); err != nil {
		if errors.Is(err, overrideRepo.ErrOverrideNotFound) {
			s.logger.Warn("Delete: override for business=%s, date=%s not found", business.ID, req.Date)
			return ErrOverrideNotFound
		}
		s.logger.Error("Delete: repository error: %v", err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted override for business=%s, date=%s", business.ID, req.Date)
	return nil
}

// authorize получает бизнес и проверяет, что пользователь его менеджер
func (s *Service) authorize(ctx context.Context, op, businessID string, userID int64) (*domain.Business, error) {
	business, err := s.businessClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			s.logger.Warn("%s: business=%s not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business=%s: %v", op, businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("%s: user=%d is not a manager of business=%s", op, userID, business.ID)
		return nil, ErrAccessDenied
	}

	return business, nil
}
