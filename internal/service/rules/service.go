package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	storage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/rules/models"
)

// Service управление правилами бронирования объекта
//
// Правила разрешаются иерархически: строка объекта, затем глобальная
// строка, затем встроенные значения по умолчанию
type Service struct {
	rules    RulesRepository
	facility FacilityClient
	logger   Logger
}

func New(rules RulesRepository, facility FacilityClient, logger Logger) *Service {
	return &Service{
		rules:    rules,
		facility: facility,
		logger:   logger,
	}
}

// GetEffective возвращает действующие правила объекта и их источник
// Доступно любому авторизованному пользователю: правила публичны,
// клиент видит их до создания брони
func (s *Service) GetEffective(ctx context.Context, facilityID int64) (*models.EffectiveRules, error) {
	if facilityID <= 0 {
		return nil, fmt.Errorf("%w: facility_id must be positive", ErrInvalidInput)
	}

	rules, err := s.rules.GetByFacility(ctx, facilityID)
	if err == nil {
		return &models.EffectiveRules{Rules: rules, Scope: models.ScopeFacility}, nil
	}
	if !errors.Is(err, storage.ErrRulesNotFound) {
		s.logger.Error("rules: failed to get rules for facility %d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: get rules: %v", ErrInternal, err)
	}

	rules, err = s.rules.GetGlobal(ctx)
	if err == nil {
		return &models.EffectiveRules{Rules: rules, Scope: models.ScopeGlobal}, nil
	}
	if !errors.Is(err, storage.ErrRulesNotFound) {
		s.logger.Error("rules: failed to get global rules: %v", err)
		return nil, fmt.Errorf("%w: get global rules: %v", ErrInternal, err)
	}

	return &models.EffectiveRules{Rules: domain.DefaultBookingRules(), Scope: models.ScopeDefault}, nil
}

// Upsert создает или обновляет правила объекта, доступно менеджеру
func (s *Service) Upsert(ctx context.Context, req models.UpdateRequest) (*domain.BookingRules, error) {
	if req.UserID <= 0 || req.FacilityID <= 0 {
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}
	if err := validateBounds(&req); err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, req.FacilityID, req.UserID); err != nil {
		return nil, err
	}

	facilityID := req.FacilityID
	saved, err := s.rules.Upsert(ctx, &domain.BookingRules{
		FacilityID:              &facilityID,
		SlotGranularityMinutes:  req.SlotGranularityMinutes,
		MinNoticeMinutes:        req.MinNoticeMinutes,
		MaxAdvanceDays:          req.MaxAdvanceDays,
		MinDurationMinutes:      req.MinDurationMinutes,
		MaxDurationMinutes:      req.MaxDurationMinutes,
		MaxBookingsPerDay:       req.MaxBookingsPerDay,
		MaxBookingsPerWeek:      req.MaxBookingsPerWeek,
		CancellationCutoffHours: req.CancellationCutoffHours,
	})
	if err != nil {
		s.logger.Error("rules: upsert failed for facility %d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: upsert rules: %v", ErrInternal, err)
	}

	s.logger.Info("rules: rules for facility %d updated by user %d", req.FacilityID, req.UserID)
	return saved, nil
}

// Delete удаляет правила объекта, возвращая его на глобальные значения
func (s *Service) Delete(ctx context.Context, userID, facilityID int64) error {
	if userID <= 0 || facilityID <= 0 {
		return fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	if err := s.checkManagerAccess(ctx, facilityID, userID); err != nil {
		return err
	}

	if err := s.rules.Delete(ctx, facilityID); err != nil {
		if errors.Is(err, storage.ErrRulesNotFound) {
			return fmt.Errorf("%w: facility %d", ErrRulesNotFound, facilityID)
		}
		s.logger.Error("rules: delete failed for facility %d: %v", facilityID, err)
		return fmt.Errorf("%w: delete rules: %v", ErrInternal, err)
	}

	s.logger.Info("rules: rules for facility %d deleted by user %d", facilityID, userID)
	return nil
}

func (s *Service) checkManagerAccess(ctx context.Context, facilityID, userID int64) error {
	facility, err := s.facility.GetFacility(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facilityservice.ErrFacilityNotFound) {
			return fmt.Errorf("%w: facility %d", ErrFacilityNotFound, facilityID)
		}
		s.logger.Error("rules: failed to get facility %d: %v", facilityID, err)
		return fmt.Errorf("%w: facility service: %v", ErrInternal, err)
	}
	if !facility.IsManager(userID) {
		return fmt.Errorf("%w: user %d is not a manager of facility %d", ErrAccessDenied, userID, facilityID)
	}
	return nil
}

func validateBounds(req *models.UpdateRequest) error {
	if req.SlotGranularityMinutes < domain.MinSlotGranularityMinutes ||
		req.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slot_granularity_minutes out of range [%d, %d]",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}
	if req.MinNoticeMinutes < domain.MinNoticeMinutesBound || req.MinNoticeMinutes > domain.MaxNoticeMinutesBound {
		return fmt.Errorf("%w: min_notice_minutes out of range [%d, %d]",
			ErrInvalidInput, domain.MinNoticeMinutesBound, domain.MaxNoticeMinutesBound)
	}
	if req.MaxAdvanceDays < domain.MinAdvanceDays || req.MaxAdvanceDays > domain.MaxAdvanceDays {
		return fmt.Errorf("%w: max_advance_days out of range [%d, %d]",
			ErrInvalidInput, domain.MinAdvanceDays, domain.MaxAdvanceDays)
	}
	if req.MinDurationMinutes <= 0 || req.MaxDurationMinutes <= 0 {
		return fmt.Errorf("%w: duration bounds must be positive", ErrInvalidInput)
	}
	if req.MinDurationMinutes > req.MaxDurationMinutes {
		return fmt.Errorf("%w: min_duration_minutes exceeds max_duration_minutes", ErrInvalidInput)
	}
	if req.MaxBookingsPerDay < 0 || req.MaxBookingsPerWeek < 0 {
		return fmt.Errorf("%w: quotas must not be negative", ErrInvalidInput)
	}
	if req.CancellationCutoffHours < 0 {
		return fmt.Errorf("%w: cancellation_cutoff_hours must not be negative", ErrInvalidInput)
	}
	return nil
}
