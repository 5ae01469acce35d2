package update_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	bookingstorage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/booking"
	rulesstorage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// UseCase изменение времени, даты, числа участников или заметок бронирования
//
// Перенос времени повторяет путь создания: рабочие часы, правила и поиск
// конфликтов в serializable-транзакции, при этом сама бронь из поиска
// исключается. Производные поля пересчитываются, цена остается
// зафиксированной на момент создания
type UseCase struct {
	bookings  BookingRepository
	rules     RulesRepository
	facility  FacilityClient
	txManager TxManager
	timeProv  TimeProvider
	logger    Logger
}

func New(bookings BookingRepository, rules RulesRepository, facility FacilityClient,
	txManager TxManager, timeProv TimeProvider, logger Logger) *UseCase {
	return &UseCase{
		bookings:  bookings,
		rules:     rules,
		facility:  facility,
		txManager: txManager,
		timeProv:  timeProv,
		logger:    logger,
	}
}

// Execute применяет изменения к бронированию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var updated *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := uc.bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingstorage.ErrBookingNotFound) {
				return fmt.Errorf("%w: booking %d", ErrBookingNotFound, req.BookingID)
			}
			uc.logger.Error("update_booking: failed to get booking %d: %v", req.BookingID, err)
			return fmt.Errorf("%w: get booking: %v", ErrInternal, err)
		}

		facility, err := uc.getFacility(ctx, booking.FacilityID)
		if err != nil {
			return err
		}

		if booking.CustomerID != req.UserID && !facility.IsManager(req.UserID) {
			return fmt.Errorf("%w: user %d cannot modify booking %d", ErrAccessDenied, req.UserID, booking.ID)
		}

		if !booking.CanBeUpdated() {
			return fmt.Errorf("%w: status %s", ErrNotUpdatable, booking.Status)
		}

		uc.applyChanges(booking, req)

		if req.Participants != nil && booking.Participants > facility.Capacity {
			return fmt.Errorf("%w: %d participants, capacity %d",
				ErrTooManyParticipants, booking.Participants, facility.Capacity)
		}

		if req.hasTimeChange() {
			if !booking.StartTime.IsBefore(booking.EndTime) {
				return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidTimeRange)
			}
			if err := booking.Recalculate(); err != nil {
				return fmt.Errorf("%w: recalculate: %v", ErrInternal, err)
			}
			if err := uc.checkReschedule(ctx, facility, booking); err != nil {
				return err
			}
		}

		if err := uc.bookings.UpdateTimes(ctx, booking); err != nil {
			uc.logger.Error("update_booking: update failed for booking %d: %v", booking.ID, err)
			return fmt.Errorf("%w: update booking: %v", ErrInternal, err)
		}

		booking.UpdatedBy = req.UserID
		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("update_booking: booking %d updated by user %d", req.BookingID, req.UserID)
	return &Response{Booking: updated}, nil
}

func (uc *UseCase) getFacility(ctx context.Context, facilityID int64) (*facilityservice.Facility, error) {
	facility, err := uc.facility.GetFacility(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facilityservice.ErrFacilityNotFound) {
			return nil, fmt.Errorf("%w: facility %d", ErrBookingNotFound, facilityID)
		}
		uc.logger.Error("update_booking: failed to get facility %d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: facility service: %v", ErrInternal, err)
	}
	return facility, nil
}

func (uc *UseCase) applyChanges(booking *domain.Booking, req *Request) {
	if req.Date != nil {
		booking.BookingDate = *req.Date
	}
	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
	}
	if req.Participants != nil {
		booking.Participants = *req.Participants
	}
	if req.Notes != nil {
		booking.Notes = req.Notes
	}
	booking.UpdatedBy = req.UserID
}

// checkReschedule проверяет новое время брони по расписанию и правилам
func (uc *UseCase) checkReschedule(ctx context.Context, facility *facilityservice.Facility, booking *domain.Booking) error {
	if facility.IsHoliday(booking.BookingDate) {
		return fmt.Errorf("%w: %s is a holiday", ErrFacilityClosed, booking.BookingDate.Format(domain.DateFormat))
	}

	schedule := facility.ScheduleFor(booking.BookingDate)
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return fmt.Errorf("%w: closed on %s", ErrFacilityClosed, booking.BookingDate.Format(domain.DateFormat))
	}

	open := types.TimeString(*schedule.OpenTime)
	close := types.TimeString(*schedule.CloseTime)
	if booking.StartTime.IsBefore(open) || close.IsBefore(booking.EndTime) {
		return fmt.Errorf("%w: facility works %s-%s", ErrOutsideWorkingHours, open, close)
	}

	rules, err := uc.getRules(ctx, booking.FacilityID)
	if err != nil {
		return err
	}

	now := uc.timeProv.Now()
	start, err := booking.StartDateTime()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !rules.NoticeSatisfied(now, start) {
		return fmt.Errorf("%w: at least %d minutes notice required", ErrMinNoticeViolated, rules.MinNoticeMinutes)
	}

	tooShort, tooLong := rules.DurationSatisfied(booking.DurationMinutes)
	if tooShort {
		return fmt.Errorf("%w: minimum %d minutes", ErrDurationTooShort, rules.MinDurationMinutes)
	}
	if tooLong {
		return fmt.Errorf("%w: maximum %d minutes", ErrDurationTooLong, rules.MaxDurationMinutes)
	}

	return uc.checkConflicts(ctx, booking)
}

func (uc *UseCase) getRules(ctx context.Context, facilityID int64) (*domain.BookingRules, error) {
	rules, err := uc.rules.GetWithHierarchy(ctx, facilityID)
	if err != nil {
		if errors.Is(err, rulesstorage.ErrRulesNotFound) {
			return domain.DefaultBookingRules(), nil
		}
		uc.logger.Error("update_booking: failed to get rules for facility %d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: get rules: %v", ErrInternal, err)
	}
	return rules, nil
}

// checkConflicts ищет активные пересечения на новую дату, исключая саму бронь
func (uc *UseCase) checkConflicts(ctx context.Context, booking *domain.Booking) error {
	date := booking.BookingDate
	existing, err := uc.bookings.GetByFacilityWithFilter(ctx, domain.FacilityBookingsFilter{
		FacilityID: booking.FacilityID,
		StartDate:  &date,
		EndDate:    &date,
	})
	if err != nil {
		uc.logger.Error("update_booking: conflict scan failed: %v", err)
		return fmt.Errorf("%w: conflict scan: %v", ErrInternal, err)
	}

	var conflicts []domain.Conflict
	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if b.IsActive() && b.OverlapsRange(booking.StartTime, booking.EndTime) {
			conflicts = append(conflicts, domain.NewOverlapConflict(b))
		}
	}
	if len(conflicts) > 0 {
		return &SlotConflictError{Conflicts: conflicts}
	}
	return nil
}
