package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/userservice"
	storage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// UseCase создание бронирования, одиночного или повторяющегося
//
// Проверка конфликтов и вставка выполняются в одной serializable-транзакции
// с блокировкой строк дня (SELECT ... FOR UPDATE), чтобы два одновременных
// запроса на пересекающиеся интервалы не прошли проверку оба
type UseCase struct {
	bookings  BookingRepository
	rules     RulesRepository
	facility  FacilityClient
	users     UserClient
	txManager TxManager
	metrics   BusinessMetrics
	timeProv  TimeProvider
	logger    Logger
}

func New(bookings BookingRepository, rules RulesRepository, facility FacilityClient, users UserClient,
	txManager TxManager, metrics BusinessMetrics, timeProv TimeProvider, logger Logger) *UseCase {
	return &UseCase{
		bookings:  bookings,
		rules:     rules,
		facility:  facility,
		users:     users,
		txManager: txManager,
		metrics:   metrics,
		timeProv:  timeProv,
		logger:    logger,
	}
}

// Execute создает бронирование и, для повторяющихся, экземпляры серии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	facility, err := uc.getActiveFacility(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}

	if req.Participants > facility.Capacity {
		return nil, fmt.Errorf("%w: %d participants, capacity %d",
			ErrTooManyParticipants, req.Participants, facility.Capacity)
	}

	customerID := req.UserID
	isManager := facility.IsManager(req.UserID)
	if req.CustomerID != nil && *req.CustomerID != req.UserID {
		if !isManager {
			return nil, fmt.Errorf("%w: booking for another customer requires manager role", ErrInvalidInput)
		}
		customerID = *req.CustomerID
	}

	customerName := uc.resolveCustomerName(ctx, customerID)

	// Брони менеджера подтверждаются сразу, клиентские ждут подтверждения
	status := domain.StatusPending
	if isManager {
		status = domain.StatusConfirmed
	}

	booking := uc.buildBooking(req, facility, customerID, customerName, status)
	if err := booking.Recalculate(); err != nil {
		return nil, fmt.Errorf("%w: recalculate: %v", ErrInternal, err)
	}

	resp := &Response{Skipped: []SkippedOccurrence{}}

	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		rules, err := uc.getRules(ctx, req.FacilityID)
		if err != nil {
			return err
		}

		if err := uc.checkPolicy(ctx, rules, facility, booking); err != nil {
			return err
		}

		created, err := uc.bookings.Create(ctx, booking)
		if err != nil {
			uc.logger.Error("create_booking: insert failed: %v", err)
			return fmt.Errorf("%w: create booking: %v", ErrInternal, err)
		}
		resp.Booking = created

		if req.IsRecurring {
			return uc.expandSeries(ctx, req, facility, created, resp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.reportCreated(resp)

	uc.logger.Info("create_booking: booking %d created for facility %d (%s %s-%s, %d instance(s), %d skipped)",
		resp.Booking.ID, req.FacilityID, req.Date.Format(domain.DateFormat),
		req.StartTime, req.EndTime, len(resp.Instances), len(resp.Skipped))
	return resp, nil
}

func (uc *UseCase) getActiveFacility(ctx context.Context, facilityID int64) (*facilityservice.Facility, error) {
	facility, err := uc.facility.GetFacility(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facilityservice.ErrFacilityNotFound) {
			return nil, fmt.Errorf("%w: facility %d", ErrFacilityNotFound, facilityID)
		}
		uc.logger.Error("create_booking: failed to get facility %d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: facility service: %v", ErrInternal, err)
	}
	if !facility.IsActive() {
		return nil, fmt.Errorf("%w: facility %d has status %s", ErrFacilityNotActive, facilityID, facility.Status)
	}
	return facility, nil
}

// resolveCustomerName денормализует имя клиента на момент создания
// Недоступность справочника пользователей бронирование не блокирует
func (uc *UseCase) resolveCustomerName(ctx context.Context, customerID int64) *string {
	user, err := uc.users.GetUserWithGracefulDegradation(ctx, customerID)
	if err != nil {
		if errors.Is(err, userservice.ErrServiceDegraded) {
			uc.logger.Warn("create_booking: user service degraded, customer %d name not resolved", customerID)
		} else {
			uc.logger.Warn("create_booking: failed to resolve customer %d: %v", customerID, err)
		}
		return nil
	}
	return &user.Name
}

func (uc *UseCase) buildBooking(req *Request, facility *facilityservice.Facility,
	customerID int64, customerName *string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		FacilityID:        req.FacilityID,
		CustomerID:        customerID,
		BookingDate:       req.Date,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Participants:      req.Participants,
		Status:            status,
		PaymentStatus:     domain.PaymentPending,
		PricePerHour:      facility.PricePerHour,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
		RecurrenceEnd:     req.RecurrenceEnd,
		CustomerName:      customerName,
		Notes:             req.Notes,
		CreatedBy:         req.UserID,
		UpdatedBy:         req.UserID,
	}
}

func (uc *UseCase) getRules(ctx context.Context, facilityID int64) (*domain.BookingRules, error) {
	rules, err := uc.rules.GetWithHierarchy(ctx, facilityID)
	if err != nil {
		if errors.Is(err, storage.ErrRulesNotFound) {
			return domain.DefaultBookingRules(), nil
		}
		uc.logger.Error("create_booking: failed to get rules for facility %d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: get rules: %v", ErrInternal, err)
	}
	return rules, nil
}

// checkPolicy применяет расписание, правила и поиск конфликтов к базовой брони
func (uc *UseCase) checkPolicy(ctx context.Context, rules *domain.BookingRules,
	facility *facilityservice.Facility, booking *domain.Booking) error {
	now := uc.timeProv.Now()

	open, close, err := workingWindow(facility, booking.BookingDate)
	if err != nil {
		return err
	}
	if booking.StartTime.IsBefore(open) || close.IsBefore(booking.EndTime) {
		return fmt.Errorf("%w: facility works %s-%s", ErrOutsideWorkingHours, open, close)
	}

	start, err := booking.StartDateTime()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if start.Before(now) {
		return fmt.Errorf("%w: booking starts in the past", ErrInvalidDate)
	}
	if !rules.NoticeSatisfied(now, start) {
		return fmt.Errorf("%w: at least %d minutes notice required", ErrMinNoticeViolated, rules.MinNoticeMinutes)
	}
	if !rules.AdvanceSatisfied(now, booking.BookingDate) {
		return fmt.Errorf("%w: at most %d days in advance", ErrMaxAdvanceViolated, rules.MaxAdvanceDays)
	}

	tooShort, tooLong := rules.DurationSatisfied(booking.DurationMinutes)
	if tooShort {
		return fmt.Errorf("%w: minimum %d minutes", ErrDurationTooShort, rules.MinDurationMinutes)
	}
	if tooLong {
		return fmt.Errorf("%w: maximum %d minutes", ErrDurationTooLong, rules.MaxDurationMinutes)
	}

	if err := uc.checkQuotas(ctx, rules, booking); err != nil {
		return err
	}

	conflicts, err := uc.findConflicts(ctx, booking.FacilityID, booking.BookingDate,
		booking.StartTime, booking.EndTime)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &SlotConflictError{Conflicts: conflicts}
	}
	return nil
}

func (uc *UseCase) checkQuotas(ctx context.Context, rules *domain.BookingRules, booking *domain.Booking) error {
	if rules.HasDailyQuota() {
		count, err := uc.bookings.CountActiveByCustomer(ctx, booking.CustomerID, booking.FacilityID,
			booking.BookingDate, booking.BookingDate)
		if err != nil {
			uc.logger.Error("create_booking: daily quota count failed: %v", err)
			return fmt.Errorf("%w: quota check: %v", ErrInternal, err)
		}
		if count >= rules.MaxBookingsPerDay {
			return fmt.Errorf("%w: max %d booking(s) per day", ErrQuotaExceeded, rules.MaxBookingsPerDay)
		}
	}

	if rules.HasWeeklyQuota() {
		weekStart, weekEnd := weekBounds(booking.BookingDate)
		count, err := uc.bookings.CountActiveByCustomer(ctx, booking.CustomerID, booking.FacilityID, weekStart, weekEnd)
		if err != nil {
			uc.logger.Error("create_booking: weekly quota count failed: %v", err)
			return fmt.Errorf("%w: quota check: %v", ErrInternal, err)
		}
		if count >= rules.MaxBookingsPerWeek {
			return fmt.Errorf("%w: max %d booking(s) per week", ErrQuotaExceeded, rules.MaxBookingsPerWeek)
		}
	}
	return nil
}

// findConflicts ищет пересечения с активными бронированиями даты
// Внутри транзакции выборка блокирует строки дня до конца транзакции
func (uc *UseCase) findConflicts(ctx context.Context, facilityID int64, date time.Time,
	start, end types.TimeString) ([]domain.Conflict, error) {
	existing, err := uc.bookings.GetByFacilityWithFilter(ctx, domain.FacilityBookingsFilter{
		FacilityID: facilityID,
		StartDate:  &date,
		EndDate:    &date,
	})
	if err != nil {
		uc.logger.Error("create_booking: conflict scan failed: %v", err)
		return nil, fmt.Errorf("%w: conflict scan: %v", ErrInternal, err)
	}

	var conflicts []domain.Conflict
	for _, b := range existing {
		if b.IsActive() && b.OverlapsRange(start, end) {
			conflicts = append(conflicts, domain.NewOverlapConflict(b))
		}
	}
	return conflicts, nil
}

func (uc *UseCase) reportCreated(resp *Response) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncBookingCreated(string(resp.Booking.Status))
	for _, inst := range resp.Instances {
		uc.metrics.IncBookingCreated(string(inst.Status))
	}
}
