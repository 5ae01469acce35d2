package create_booking

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/internal/integrations/facilityservice"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// expandSeries создает экземпляры повторяющегося бронирования
//
// Partial success: даты с конфликтами, праздники и нерабочие дни
// пропускаются с причиной, остальные экземпляры создаются. Вся серия
// разворачивается в той же транзакции, что и базовое бронирование
func (uc *UseCase) expandSeries(ctx context.Context, req *Request,
	facility *facilityservice.Facility, parent *domain.Booking, resp *Response) error {
	occurrences, err := domain.ExpandOccurrences(req.Date, *req.RecurrencePattern, *req.RecurrenceEnd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}

	for _, date := range occurrences {
		if reason := uc.occurrenceBlocked(ctx, facility, date, req.StartTime, req.EndTime); reason != "" {
			resp.Skipped = append(resp.Skipped, SkippedOccurrence{
				Date:   date.Format(domain.DateFormat),
				Reason: reason,
			})
			continue
		}

		instance := uc.buildInstance(parent, date)
		created, err := uc.bookings.Create(ctx, instance)
		if err != nil {
			uc.logger.Error("create_booking: failed to create instance for %s: %v",
				date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: create instance: %v", ErrInternal, err)
		}
		resp.Instances = append(resp.Instances, created)
	}
	return nil
}

// occurrenceBlocked возвращает причину пропуска даты серии или пустую строку
func (uc *UseCase) occurrenceBlocked(ctx context.Context, facility *facilityservice.Facility,
	date time.Time, start, end types.TimeString) string {
	if facility.IsHoliday(date) {
		return "праздничный день"
	}

	open, close, err := workingWindow(facility, date)
	if err != nil {
		return "объект не работает в этот день"
	}
	if start.IsBefore(open) || close.IsBefore(end) {
		return fmt.Sprintf("интервал вне рабочих часов (%s-%s)", open, close)
	}

	conflicts, err := uc.findConflicts(ctx, facility.ID, date, start, end)
	if err != nil {
		// Ошибка выборки внутри транзакции все равно приведет к откату,
		// здесь достаточно пропустить дату с технической причиной
		return "не удалось проверить занятость"
	}
	if len(conflicts) > 0 {
		return conflicts[0].Message
	}
	return ""
}

// buildInstance собирает экземпляр серии на конкретную дату
// Экземпляры ссылаются на родителя и сами сериями не являются
func (uc *UseCase) buildInstance(parent *domain.Booking, date time.Time) *domain.Booking {
	return &domain.Booking{
		FacilityID:      parent.FacilityID,
		CustomerID:      parent.CustomerID,
		BookingDate:     date,
		StartTime:       parent.StartTime,
		EndTime:         parent.EndTime,
		DurationMinutes: parent.DurationMinutes,
		Participants:    parent.Participants,
		Status:          parent.Status,
		PaymentStatus:   domain.PaymentPending,
		PricePerHour:    parent.PricePerHour,
		TotalAmount:     parent.TotalAmount,
		ParentBookingID: &parent.ID,
		CustomerName:    parent.CustomerName,
		Notes:           parent.Notes,
		CreatedBy:       parent.CreatedBy,
		UpdatedBy:       parent.UpdatedBy,
	}
}

// workingWindow возвращает рабочие часы объекта на дату
func workingWindow(facility *facilityservice.Facility, date time.Time) (types.TimeString, types.TimeString, error) {
	if facility.IsHoliday(date) {
		return "", "", fmt.Errorf("%w: %s is a holiday", ErrFacilityClosed, date.Format(domain.DateFormat))
	}

	schedule := facility.ScheduleFor(date)
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return "", "", fmt.Errorf("%w: closed on %s", ErrFacilityClosed, date.Format(domain.DateFormat))
	}

	return types.TimeString(*schedule.OpenTime), types.TimeString(*schedule.CloseTime), nil
}

// weekBounds возвращает понедельник и воскресенье недели, содержащей дату
func weekBounds(date time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}

	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}
