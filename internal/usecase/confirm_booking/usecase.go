package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	storage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/booking"
)

// Request параметры подтверждения бронирования
type Request struct {
	UserID    int64
	BookingID int64
}

// Response подтвержденное бронирование
type Response struct {
	Booking *domain.Booking
}

// UseCase перевод бронирования pending -> confirmed менеджером объекта
//
// Между созданием и подтверждением слот мог быть занят другой бронью,
// поэтому доступность перепроверяется в транзакции. При конфликте
// подтверждение отклоняется, бронирование остается pending
type UseCase struct {
	bookings  BookingRepository
	facility  FacilityClient
	txManager TxManager
	logger    Logger
}

func New(bookings BookingRepository, facility FacilityClient, txManager TxManager, logger Logger) *UseCase {
	return &UseCase{
		bookings:  bookings,
		facility:  facility,
		txManager: txManager,
		logger:    logger,
	}
}

// Execute подтверждает бронирование с повторной проверкой доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.UserID <= 0 || req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	var confirmed *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := uc.bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return fmt.Errorf("%w: booking %d", ErrBookingNotFound, req.BookingID)
			}
			uc.logger.Error("confirm_booking: failed to get booking %d: %v", req.BookingID, err)
			return fmt.Errorf("%w: get booking: %v", ErrInternal, err)
		}

		if err := uc.checkManagerAccess(ctx, booking.FacilityID, req.UserID); err != nil {
			return err
		}

		if !domain.CanTransition(booking.Status, domain.StatusConfirmed) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, domain.StatusConfirmed)
		}

		conflicts, err := uc.findConflicts(ctx, booking)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &SlotConflictError{Conflicts: conflicts}
		}

		if err := uc.bookings.UpdateStatus(ctx, booking.ID, domain.StatusConfirmed, req.UserID); err != nil {
			if errors.Is(err, storage.ErrStatusNotAllowed) {
				return fmt.Errorf("%w: booking %d status changed concurrently", ErrInvalidTransition, booking.ID)
			}
			uc.logger.Error("confirm_booking: status update failed for booking %d: %v", booking.ID, err)
			return fmt.Errorf("%w: update status: %v", ErrInternal, err)
		}

		booking.Status = domain.StatusConfirmed
		booking.UpdatedBy = req.UserID
		confirmed = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("confirm_booking: booking %d confirmed by user %d", req.BookingID, req.UserID)
	return &Response{Booking: confirmed}, nil
}

func (uc *UseCase) checkManagerAccess(ctx context.Context, facilityID, userID int64) error {
	facility, err := uc.facility.GetFacility(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facilityservice.ErrFacilityNotFound) {
			return fmt.Errorf("%w: facility %d", ErrBookingNotFound, facilityID)
		}
		uc.logger.Error("confirm_booking: failed to get facility %d: %v", facilityID, err)
		return fmt.Errorf("%w: facility service: %v", ErrInternal, err)
	}
	if !facility.IsManager(userID) {
		return fmt.Errorf("%w: user %d is not a manager of facility %d", ErrAccessDenied, userID, facilityID)
	}
	return nil
}

// findConflicts ищет активные пересечения на дату брони, исключая ее саму
// Выборка внутри транзакции блокирует строки дня
func (uc *UseCase) findConflicts(ctx context.Context, booking *domain.Booking) ([]domain.Conflict, error) {
	date := booking.BookingDate
	existing, err := uc.bookings.GetByFacilityWithFilter(ctx, domain.FacilityBookingsFilter{
		FacilityID: booking.FacilityID,
		StartDate:  &date,
		EndDate:    &date,
	})
	if err != nil {
		uc.logger.Error("confirm_booking: conflict scan failed: %v", err)
		return nil, fmt.Errorf("%w: conflict scan: %v", ErrInternal, err)
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
	return conflicts, nil
}
