package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	storage "github.com/m04kA/SMC-FacilityBookingService/internal/infra/storage/rules"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// UseCase построение расписания свободных слотов объекта за период
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

// Execute возвращает доступность по дням запрошенного периода
// Праздничные и нерабочие дни попадают в ответ с пустым списком слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	facility, err := uc.facility.GetFacility(ctx, req.FacilityID)
	if err != nil {
		if errors.Is(err, facilityservice.ErrFacilityNotFound) {
			return nil, fmt.Errorf("%w: facility %d", ErrFacilityNotFound, req.FacilityID)
		}
		uc.logger.Error("get_available_slots: failed to get facility %d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: facility service: %v", ErrInternal, err)
	}

	rules, err := uc.getRules(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}

	granularity := rules.SlotGranularityMinutes
	if req.Granularity != nil {
		granularity = *req.Granularity
	}

	byDate, err := uc.loadBookings(ctx, req)
	if err != nil {
		return nil, err
	}

	now := uc.timeProv.Now()
	resp := &Response{FacilityID: req.FacilityID}

	for date := req.StartDate; !date.After(req.EndDate); date = date.AddDate(0, 0, 1) {
		day, err := uc.buildDay(facility, rules, granularity, date, now, byDate[date.Format(domain.DateFormat)])
		if err != nil {
			return nil, err
		}
		resp.Days = append(resp.Days, *day)
	}

	return resp, nil
}

func (uc *UseCase) getRules(ctx context.Context, facilityID int64) (*domain.BookingRules, error) {
	rules, err := uc.rules.GetWithHierarchy(ctx, facilityID)
	if err != nil {
		if errors.Is(err, storage.ErrRulesNotFound) {
			return domain.DefaultBookingRules(), nil
		}
		uc.logger.Error("get_available_slots: failed to get rules for facility %d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: get rules: %v", ErrInternal, err)
	}
	return rules, nil
}

// loadBookings выбирает активные бронирования за период одним запросом
// и группирует их по дате
func (uc *UseCase) loadBookings(ctx context.Context, req *Request) (map[string][]*domain.Booking, error) {
	startDate, endDate := req.StartDate, req.EndDate
	bookings, err := uc.bookings.GetByFacilityWithFilter(ctx, domain.FacilityBookingsFilter{
		FacilityID: req.FacilityID,
		StartDate:  &startDate,
		EndDate:    &endDate,
	})
	if err != nil {
		uc.logger.Error("get_available_slots: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: list bookings: %v", ErrInternal, err)
	}

	byDate := make(map[string][]*domain.Booking, len(bookings))
	for _, b := range bookings {
		key := b.BookingDate.Format(domain.DateFormat)
		byDate[key] = append(byDate[key], b)
	}
	return byDate, nil
}

func (uc *UseCase) buildDay(facility *facilityservice.Facility, rules *domain.BookingRules, granularity int,
	date, now time.Time, bookings []*domain.Booking) (*domain.DayAvailability, error) {
	day := &domain.DayAvailability{
		FacilityID: facility.ID,
		Date:       date.Format(domain.DateFormat),
		Slots:      []domain.AvailableSlot{},
	}

	if facility.IsHoliday(date) {
		day.IsHoliday = true
		return day, nil
	}

	schedule := facility.ScheduleFor(date)
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return day, nil
	}

	open := types.TimeString(*schedule.OpenTime)
	close := types.TimeString(*schedule.CloseTime)
	day.IsOpen = true
	day.OpenTime = &open
	day.CloseTime = &close

	starts, err := generateSlots(open, close, granularity, date, now, rules.MinNoticeMinutes)
	if err != nil {
		uc.logger.Error("get_available_slots: slot generation failed for facility %d on %s: %v",
			facility.ID, day.Date, err)
		return nil, fmt.Errorf("%w: generate slots: %v", ErrInternal, err)
	}

	slots, err := fillOccupancy(starts, granularity, facility.Capacity, bookings)
	if err != nil {
		return nil, fmt.Errorf("%w: fill occupancy: %v", ErrInternal, err)
	}

	day.Slots = slots
	return day, nil
}
