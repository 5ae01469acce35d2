package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	bookingstorage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/booking"
	rulesstorage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/internal/service/bookings/models"
)

// Service операции жизненного цикла бронирований
//
// Допустимые переходы статусов задаются таблицей в пакете domain,
// каждый переход дополнительно охраняется проверками времени и ролей
type Service struct {
	bookings BookingRepository
	rules    RulesRepository
	facility FacilityClient
	metrics  BusinessMetrics
	timeProv TimeProvider
	logger   Logger
}

func New(bookings BookingRepository, rules RulesRepository, facility FacilityClient,
	metrics BusinessMetrics, timeProv TimeProvider, logger Logger) *Service {
	return &Service{
		bookings: bookings,
		rules:    rules,
		facility: facility,
		metrics:  metrics,
		timeProv: timeProv,
		logger:   logger,
	}
}

// GetByID возвращает бронирование владельцу или менеджеру объекта
func (s *Service) GetByID(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	if userID <= 0 || bookingID <= 0 {
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID {
		facility, err := s.getFacility(ctx, booking.FacilityID)
		if err != nil {
			return nil, err
		}
		if !facility.IsManager(userID) {
			return nil, fmt.Errorf("%w: user %d cannot view booking %d", ErrAccessDenied, userID, bookingID)
		}
	}

	return booking, nil
}

// GetUserBookings возвращает бронирования пользователя
// Чужие бронирования недоступны: список не привязан к объекту,
// и проверить менеджерские права здесь не по чему
func (s *Service) GetUserBookings(ctx context.Context, query models.UserBookingsQuery) ([]*domain.Booking, error) {
	if query.UserID <= 0 || query.TargetUserID <= 0 {
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}
	if query.UserID != query.TargetUserID {
		return nil, fmt.Errorf("%w: user %d cannot list bookings of user %d",
			ErrAccessDenied, query.UserID, query.TargetUserID)
	}
	if query.Status != nil && !domain.IsValidStatus(string(*query.Status)) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *query.Status)
	}

	result, err := s.bookings.GetByCustomerID(ctx, query.TargetUserID, query.Status)
	if err != nil {
		s.logger.Error("bookings: failed to list bookings of user %d: %v", query.TargetUserID, err)
		return nil, fmt.Errorf("%w: list bookings: %v", ErrInternal, err)
	}
	return result, nil
}

// GetFacilityBookings возвращает бронирования объекта менеджеру
func (s *Service) GetFacilityBookings(ctx context.Context, query models.FacilityBookingsQuery) ([]*domain.Booking, error) {
	if query.UserID <= 0 || query.FacilityID <= 0 {
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}
	if query.Status != nil && !domain.IsValidStatus(string(*query.Status)) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *query.Status)
	}
	if query.StartDate != nil && query.EndDate != nil && query.EndDate.Before(*query.StartDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}

	facility, err := s.getFacility(ctx, query.FacilityID)
	if err != nil {
		return nil, err
	}
	if !facility.IsManager(query.UserID) {
		return nil, fmt.Errorf("%w: user %d is not a manager of facility %d",
			ErrAccessDenied, query.UserID, query.FacilityID)
	}

	result, err := s.bookings.GetByFacilityWithFilter(ctx, domain.FacilityBookingsFilter{
		FacilityID:      query.FacilityID,
		StartDate:       query.StartDate,
		EndDate:         query.EndDate,
		Status:          query.Status,
		IncludeInactive: query.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("bookings: failed to list bookings of facility %d: %v", query.FacilityID, err)
		return nil, fmt.Errorf("%w: list bookings: %v", ErrInternal, err)
	}
	return result, nil
}

// Cancel отменяет бронирование с обязательной причиной
//
// Владелец ограничен порогом отмены из правил, менеджер объекта может
// отменять в любой момент. Оплаченные бронирования при отмене помечаются
// к возврату средств
func (s *Service) Cancel(ctx context.Context, req models.CancelRequest) (*domain.Booking, error) {
	if req.UserID <= 0 || req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	facility, err := s.getFacility(ctx, booking.FacilityID)
	if err != nil {
		return nil, err
	}

	isManager := facility.IsManager(req.UserID)
	if booking.CustomerID != req.UserID && !isManager {
		return nil, fmt.Errorf("%w: user %d cannot cancel booking %d", ErrAccessDenied, req.UserID, req.BookingID)
	}

	if !booking.CanBeCancelled() {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, domain.StatusCancelled)
	}

	if !isManager {
		if err := s.checkCancellationCutoff(ctx, booking); err != nil {
			return nil, err
		}
	}

	paymentStatus := booking.PaymentStatus
	if paymentStatus == domain.PaymentPaid || paymentStatus == domain.PaymentPartial {
		paymentStatus = domain.PaymentRefunded
	}

	if err := s.bookings.Cancel(ctx, booking.ID, reason, req.UserID, paymentStatus); err != nil {
		if errors.Is(err, bookingstorage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrBookingNotFound, req.BookingID)
		}
		if errors.Is(err, bookingstorage.ErrStatusNotAllowed) {
			// Конкурентный переход изменил статус между чтением и отменой
			return nil, fmt.Errorf("%w: booking %d status changed concurrently", ErrInvalidTransition, req.BookingID)
		}
		s.logger.Error("bookings: cancel failed for booking %d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: cancel booking: %v", ErrInternal, err)
	}

	s.reportCancelled(isManager)

	now := s.timeProv.Now()
	booking.Status = domain.StatusCancelled
	booking.PaymentStatus = paymentStatus
	booking.CancellationReason = &reason
	booking.CancelledAt = &now
	booking.CancelledBy = &req.UserID
	booking.UpdatedBy = req.UserID

	s.logger.Info("bookings: booking %d cancelled by user %d", req.BookingID, req.UserID)
	return booking, nil
}

// Complete переводит бронирование confirmed -> completed
// Доступно менеджеру объекта и только после окончания брони
func (s *Service) Complete(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	return s.transitionByManager(ctx, userID, bookingID, domain.StatusCompleted, func(b *domain.Booking) error {
		end, err := b.EndDateTime()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if s.timeProv.Now().Before(end) {
			return fmt.Errorf("%w: booking ends at %s", ErrBookingNotFinished, b.EndTime)
		}
		return nil
	})
}

// MarkNoShow отмечает неявку клиента
// Доступно менеджеру объекта и только после начала брони
func (s *Service) MarkNoShow(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	return s.transitionByManager(ctx, userID, bookingID, domain.StatusNoShow, func(b *domain.Booking) error {
		start, err := b.StartDateTime()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if s.timeProv.Now().Before(start) {
			return fmt.Errorf("%w: booking starts at %s", ErrBookingNotStarted, b.StartTime)
		}
		return nil
	})
}

// Delete физически удаляет бронирование
// Операция очистки данных, доступна менеджеру и только для незавершенных
// броней. Для отмены с сохранением истории используется Cancel
func (s *Service) Delete(ctx context.Context, userID, bookingID int64) error {
	if userID <= 0 || bookingID <= 0 {
		return fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	facility, err := s.getFacility(ctx, booking.FacilityID)
	if err != nil {
		return err
	}
	if !facility.IsManager(userID) {
		return fmt.Errorf("%w: user %d is not a manager of facility %d",
			ErrAccessDenied, userID, booking.FacilityID)
	}

	if !booking.CanBeDeleted() {
		return fmt.Errorf("%w: cannot delete booking in status %s", ErrInvalidTransition, booking.Status)
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, bookingstorage.ErrBookingNotFound) {
			return fmt.Errorf("%w: booking %d", ErrBookingNotFound, bookingID)
		}
		s.logger.Error("bookings: delete failed for booking %d: %v", bookingID, err)
		return fmt.Errorf("%w: delete booking: %v", ErrInternal, err)
	}

	s.logger.Info("bookings: booking %d deleted by user %d", bookingID, userID)
	return nil
}

// transitionByManager общий путь менеджерских переходов статуса
func (s *Service) transitionByManager(ctx context.Context, userID, bookingID int64,
	target domain.BookingStatus, guard func(*domain.Booking) error) (*domain.Booking, error) {
	if userID <= 0 || bookingID <= 0 {
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	facility, err := s.getFacility(ctx, booking.FacilityID)
	if err != nil {
		return nil, err
	}
	if !facility.IsManager(userID) {
		return nil, fmt.Errorf("%w: user %d is not a manager of facility %d",
			ErrAccessDenied, userID, booking.FacilityID)
	}

	if !domain.CanTransition(booking.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, target)
	}
	if err := guard(booking); err != nil {
		return nil, err
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, target, userID); err != nil {
		if errors.Is(err, bookingstorage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrBookingNotFound, bookingID)
		}
		if errors.Is(err, bookingstorage.ErrStatusNotAllowed) {
			// Конкурентный переход изменил статус между чтением и обновлением
			return nil, fmt.Errorf("%w: booking %d status changed concurrently", ErrInvalidTransition, bookingID)
		}
		s.logger.Error("bookings: status update failed for booking %d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: update status: %v", ErrInternal, err)
	}

	booking.Status = target
	booking.UpdatedBy = userID

	s.logger.Info("bookings: booking %d moved to %s by user %d", bookingID, target, userID)
	return booking, nil
}

func (s *Service) checkCancellationCutoff(ctx context.Context, booking *domain.Booking) error {
	rules, err := s.rules.GetWithHierarchy(ctx, booking.FacilityID)
	if err != nil {
		if errors.Is(err, rulesstorage.ErrRulesNotFound) {
			rules = domain.DefaultBookingRules()
		} else {
			s.logger.Error("bookings: failed to get rules for facility %d: %v", booking.FacilityID, err)
			return fmt.Errorf("%w: get rules: %v", ErrInternal, err)
		}
	}

	start, err := booking.StartDateTime()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !rules.CancellationAllowed(s.timeProv.Now(), start) {
		return fmt.Errorf("%w: cancellation allowed no later than %d hour(s) before start",
			ErrCancellationCutoff, rules.CancellationCutoffHours)
	}
	return nil
}

func (s *Service) getBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingstorage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: booking %d", ErrBookingNotFound, bookingID)
		}
		s.logger.Error("bookings: failed to get booking %d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

func (s *Service) getFacility(ctx context.Context, facilityID int64) (*facilityservice.Facility, error) {
	facility, err := s.facility.GetFacility(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facilityservice.ErrFacilityNotFound) {
			s.logger.Warn("bookings: facility %d not found in catalog", facilityID)
			return nil, fmt.Errorf("%w: facility %d", ErrBookingNotFound, facilityID)
		}
		s.logger.Error("bookings: failed to get facility %d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: facility service: %v", ErrInternal, err)
	}
	return facility, nil
}

func (s *Service) reportCancelled(isManager bool) {
	if s.metrics == nil {
		return
	}
	if isManager {
		s.metrics.IncBookingCancelled("manager")
	} else {
		s.metrics.IncBookingCancelled("customer")
	}
}
