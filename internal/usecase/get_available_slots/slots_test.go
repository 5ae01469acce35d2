package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBookingService/internal/domain"
	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

func TestGenerateSlots(t *testing.T) {
	futureDate := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	t.Run("ascending full grid", func(t *testing.T) {
		slots, err := generateSlots("09:00", "11:00", 30, futureDate, now, 60)
		require.NoError(t, err)
		assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00", "10:30"}, slots)
	})

	t.Run("slot not fitting before close is dropped", func(t *testing.T) {
		// При шаге 45 минут слот 10:30 закончился бы в 11:15, после закрытия
		slots, err := generateSlots("09:00", "11:00", 45, futureDate, now, 60)
		require.NoError(t, err)
		assert.Equal(t, []types.TimeString{"09:00", "09:45"}, slots)
	})

	t.Run("close at day boundary", func(t *testing.T) {
		slots, err := generateSlots("22:00", "24:00", 60, futureDate, now, 0)
		require.NoError(t, err)
		assert.Equal(t, []types.TimeString{"22:00", "23:00"}, slots)
	})

	t.Run("min notice filters today's slots", func(t *testing.T) {
		today := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		// Сейчас 08:00, min notice 60 минут: слоты раньше 09:00 недоступны
		slots, err := generateSlots("08:00", "11:00", 60, today, now, 60)
		require.NoError(t, err)
		assert.Equal(t, []types.TimeString{"09:00", "10:00"}, slots)
	})

	t.Run("min notice ignores server timezone", func(t *testing.T) {
		today := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		// Те же часы на стене сервера в MSK (08:00 UTC): обрезка должна
		// считаться в зоне даты, а не в локальной зоне сервера
		mskNow := time.Date(2026, 9, 10, 11, 0, 0, 0, time.FixedZone("MSK", 3*60*60))
		slots, err := generateSlots("08:00", "11:00", 60, today, mskNow, 60)
		require.NoError(t, err)
		assert.Equal(t, []types.TimeString{"09:00", "10:00"}, slots)
	})

	t.Run("past date yields nothing", func(t *testing.T) {
		past := time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
		slots, err := generateSlots("08:00", "22:00", 30, past, now, 0)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("close before open", func(t *testing.T) {
		_, err := generateSlots("18:00", "09:00", 30, futureDate, now, 0)
		assert.Error(t, err)
	})
}

func TestFillOccupancy(t *testing.T) {
	starts := []types.TimeString{"09:00", "09:30", "10:00", "10:30"}

	bookings := []*domain.Booking{
		{StartTime: "09:30", EndTime: "10:00", Status: domain.StatusConfirmed},
		{StartTime: "10:00", EndTime: "11:00", Status: domain.StatusCancelled},
	}

	slots, err := fillOccupancy(starts, 30, 10, bookings)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	// Занятость бинарная: слот с пересечением полностью занят
	assert.Equal(t, 10, slots[0].AvailableSpots)
	assert.Equal(t, 0, slots[1].AvailableSpots)
	// Отмененное бронирование слот не занимает
	assert.Equal(t, 10, slots[2].AvailableSpots)
	assert.Equal(t, 10, slots[3].AvailableSpots)

	// Занятый слот помечается блокировкой с причиной
	assert.True(t, slots[1].IsBlocked)
	assert.Equal(t, blockReasonOccupied, slots[1].BlockReason)
	assert.False(t, slots[1].IsAvailable())

	for i, slot := range slots {
		assert.Equal(t, 10, slot.TotalSpots)
		assert.Equal(t, 30, slot.DurationMinutes)
		if i != 1 {
			assert.True(t, slot.IsAvailable())
			assert.False(t, slot.IsBlocked)
			assert.Empty(t, slot.BlockReason)
		}
	}
}
