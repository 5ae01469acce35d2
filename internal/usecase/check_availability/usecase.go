package check_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	storage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
)

// UseCase проверка доступности интервала без создания бронирования
// Чтение без транзакции: результат носит информационный характер,
// окончательная проверка выполняется при создании брони под блокировкой
type UseCase struct {
	bookings BookingRepository
	rules    RulesRepository
	facility FacilityClient
	timeProv TimeProvider
	logger   Logger
}

func New(bookings BookingRepository, rules RulesRepository, facility FacilityClient, timeProv TimeProvider, logger Logger) *UseCase {
	return &UseCase{
		bookings: bookings,
		rules:    rules,
		facility: facility,
		timeProv: timeProv,
		logger:   logger,
	}
}

// Execute проверяет интервал на конфликты с бронированиями и правилами
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	facility, err := uc.facility.GetFacility(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, facilityservice.ErrFacilityNotFound) {
			return nil, fmt.Errorf("%w: facility %d", ErrFacilityNotFound, req.FacilityID)
		}
		uc.logger.Error("check_availability: failed to get facility %d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: facility service: %v", ErrInternal, err)
	}

	if !facility.IsActive() {
		return nil, fmt.Errorf("%w: facility %d has status %s", ErrFacilityNotActive, req.FacilityID, facility.Status)
	}

	rules, err := uc.getRules(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}

	resp := &Response{Conflicts: []domain.Conflict{}, Warnings: []string{}}

	uc.checkSchedule(facility, req, resp)
	uc.checkRules(ctx, rules, req, resp)

	if err := uc.checkOverlaps(ctx, req, resp); err != nil {
		return nil, err
	}

	uc.collectWarnings(facility, rules, req, resp)

	resp.IsValid = len(resp.Conflicts) == 0
	return resp, nil
}

func (uc *UseCase) getRules(ctx context.Context, facilityID int64) (*domain.BookingRules, error) {
	rules, err := uc.rules.GetWithHierarchy(ctx, facilityID)
	if err != nil {
		if errors.Is(err, storage.ErrRulesNotFound) {
			return domain.DefaultBookingRules(), nil
		}
		uc.logger.Error("check_availability: failed to get rules for facility %d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: get rules: %v", ErrInternal, err)
	}
	return rules, nil
}

// checkSchedule проверяет рабочие часы и праздничные дни объекта
func (uc *UseCase) checkSchedule(facility *facilityservice.Facility, req *Request, resp *Response) {
	if facility.IsHoliday(req.Date) {
		resp.Conflicts = append(resp.Conflicts, domain.Conflict{
			Type:    domain.ConflictFacilityClosed,
			Message: fmt.Sprintf("объект закрыт %s: праздничный день", req.Date.Format(domain.DateFormat)),
		})
		return
	}

	schedule := facility.ScheduleFor(req.Date)
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		resp.Conflicts = append(resp.Conflicts, domain.Conflict{
			Type:    domain.ConflictFacilityClosed,
			Message: fmt.Sprintf("объект не работает %s", req.Date.Format(domain.DateFormat)),
		})
		return
	}

	open := *schedule.OpenTime
	close := *schedule.CloseTime
	if string(req.StartTime) < open || string(req.EndTime) > close {
		resp.Conflicts = append(resp.Conflicts, domain.Conflict{
			Type:    domain.ConflictOutsideHours,
			Message: fmt.Sprintf("интервал выходит за рабочие часы объекта (%s-%s)", open, close),
		})
	}
}

// checkRules применяет правила бронирования к запрошенному интервалу
// Каждое нарушение добавляется отдельным конфликтом с именем правила
func (uc *UseCase) checkRules(ctx context.Context, rules *domain.BookingRules, req *Request, resp *Response) {
	now := uc.timeProv.Now()

	start, end, err := rangeOnDate(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		// Формат времени проверен при валидации, сюда попадать не должны
		uc.logger.Warn("check_availability: failed to build range: %v", err)
		return
	}

	if !rules.NoticeSatisfied(now, start) {
		resp.Conflicts = append(resp.Conflicts, domain.NewRuleConflict(
			fmt.Sprintf("правило min_notice: бронирование возможно не позже чем за %d мин до начала", rules.MinNoticeMinutes)))
	}

	if !rules.AdvanceSatisfied(now, req.Date) {
		resp.Conflicts = append(resp.Conflicts, domain.NewRuleConflict(
			fmt.Sprintf("правило max_advance: бронирование возможно не дальше чем за %d дн", rules.MaxAdvanceDays)))
	}

	duration := int(end.Sub(start).Minutes())
	tooShort, tooLong := rules.DurationSatisfied(duration)
	if tooShort {
		resp.Conflicts = append(resp.Conflicts, domain.NewRuleConflict(
			fmt.Sprintf("правило min_duration: минимальная длительность %d мин", rules.MinDurationMinutes)))
	}
	if tooLong {
		resp.Conflicts = append(resp.Conflicts, domain.NewRuleConflict(
			fmt.Sprintf("правило max_duration: максимальная длительность %d мин", rules.MaxDurationMinutes)))
	}

	// Квоты оцениваются только для новых бронирований: при переносе
	// существующая бронь уже учтена в счетчиках
	if req.ExcludeBookingID != nil {
		return
	}

	if rules.HasDailyQuota() {
		count, err := uc.bookings.CountActiveByCustomer(ctx, req.UserID, req.FacilityID, req.Date, req.Date)
		if err != nil {
			uc.logger.Warn("check_availability: daily quota count failed: %v", err)
		} else if count >= rules.MaxBookingsPerDay {
			resp.Conflicts = append(resp.Conflicts, domain.NewRuleConflict(
				fmt.Sprintf("правило max_bookings_per_day: не более %d бронирований в день", rules.MaxBookingsPerDay)))
		}
	}

	if rules.HasWeeklyQuota() {
		weekStart, weekEnd := weekBounds(req.Date)
		count, err := uc.bookings.CountActiveByCustomer(ctx, req.UserID, req.FacilityID, weekStart, weekEnd)
		if err != nil {
			uc.logger.Warn("check_availability: weekly quota count failed: %v", err)
		} else if count >= rules.MaxBookingsPerWeek {
			resp.Conflicts = append(resp.Conflicts, domain.NewRuleConflict(
				fmt.Sprintf("правило max_bookings_per_week: не более %d бронирований в неделю", rules.MaxBookingsPerWeek)))
		}
	}
}

// checkOverlaps ищет пересечения с активными бронированиями на ту же дату
func (uc *UseCase) checkOverlaps(ctx context.Context, req *Request, resp *Response) error {
	date := req.Date
	existing, err := uc.bookings.GetByFacilityWithFilter(ctx, domain.FacilityBookingsFilter{
		FacilityID: req.FacilityID,
		StartDate:  &date,
		EndDate:    &date,
	})
	if err != nil {
		uc.logger.Error("check_availability: failed to list bookings: %v", err)
		return fmt.Errorf("%w: list bookings: %v", ErrInternal, err)
	}

	for _, b := range existing {
		if req.ExcludeBookingID != nil && b.ID == *req.ExcludeBookingID {
			continue
		}
		if !b.IsActive() {
			continue
		}
		if b.OverlapsRange(req.StartTime, req.EndTime) {
			resp.Conflicts = append(resp.Conflicts, domain.NewOverlapConflict(b))
		}
	}
	return nil
}

// collectWarnings добавляет некритичные замечания, не влияющие на IsValid
func (uc *UseCase) collectWarnings(facility *facilityservice.Facility, rules *domain.BookingRules, req *Request, resp *Response) {
	startMin, err := req.StartTime.Minutes()
	if err == nil && rules.SlotGranularityMinutes > 0 && startMin%rules.SlotGranularityMinutes != 0 {
		resp.Warnings = append(resp.Warnings,
			fmt.Sprintf("начало интервала не выровнено по сетке %d мин", rules.SlotGranularityMinutes))
	}

	duration, err := req.StartTime.MinutesUntil(req.EndTime)
	if err == nil && rules.SlotGranularityMinutes > 0 && duration%rules.SlotGranularityMinutes != 0 {
		resp.Warnings = append(resp.Warnings,
			fmt.Sprintf("длительность не кратна сетке %d мин", rules.SlotGranularityMinutes))
	}

	schedule := facility.ScheduleFor(req.Date)
	if schedule.IsOpen && schedule.CloseTime != nil && string(req.EndTime) == *schedule.CloseTime {
		resp.Warnings = append(resp.Warnings, "интервал заканчивается точно в момент закрытия объекта")
	}
}
