package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

// blockReasonOccupied причина блокировки слота пересекающимся бронированием
const blockReasonOccupied = "занято существующим бронированием"

// generateSlots строит сетку слотов в рабочих часах объекта
// Слоты идут по возрастанию времени начала, последний слот всегда
// заканчивается не позже закрытия. Для текущей даты слоты, начало
// которых нарушает min_notice, отбрасываются
func generateSlots(open, close types.TimeString, granularity int, date, now time.Time, minNoticeMinutes int) ([]types.TimeString, error) {
	openMin, err := open.Minutes()
	if err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	closeMin, err := close.Minutes()
	if err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}
	if closeMin <= openMin {
		return nil, fmt.Errorf("close time %s is not after open time %s", close, open)
	}

	earliest := notBookableBefore(date, now, minNoticeMinutes)

	var slots []types.TimeString
	for m := openMin; m+granularity <= closeMin; m += granularity {
		if m < earliest {
			continue
		}
		slot, err := open.AddMinutes(m - openMin)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// notBookableBefore возвращает минуту дня, раньше которой слоты недоступны
// Для будущих дат ограничения нет, для прошедших недоступен весь день.
// Границы дня строятся в таймзоне запрошенной даты, а не локальных часов
// сервера, иначе обрезка "сегодняшних" слотов сдвигается на смещение зоны
func notBookableBefore(date, now time.Time, minNoticeMinutes int) int {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	threshold := now.Add(time.Duration(minNoticeMinutes) * time.Minute)

	if threshold.Before(day) {
		return 0
	}
	if !threshold.Before(day.AddDate(0, 0, 1)) {
		return 24 * 60
	}
	local := threshold.In(date.Location())
	return local.Hour()*60 + local.Minute()
}

// fillOccupancy проставляет доступность слотов по активным бронированиям
// Занятость бинарная: любое пересечение делает слот полностью занятым
func fillOccupancy(starts []types.TimeString, granularity, capacity int, bookings []*domain.Booking) ([]domain.AvailableSlot, error) {
	slots := make([]domain.AvailableSlot, 0, len(starts))

	for _, start := range starts {
		end, err := start.AddMinutes(granularity)
		if err != nil {
			return nil, err
		}

		occupied := false
		for _, b := range bookings {
			if b.IsActive() && b.OverlapsRange(start, end) {
				occupied = true
				break
			}
		}

		slot := domain.AvailableSlot{
			StartTime:       start,
			DurationMinutes: granularity,
			AvailableSpots:  capacity,
			TotalSpots:      capacity,
		}
		if occupied {
			slot.AvailableSpots = 0
			slot.IsBlocked = true
			slot.BlockReason = blockReasonOccupied
		}

		slots = append(slots, slot)
	}
	return slots, nil
}
