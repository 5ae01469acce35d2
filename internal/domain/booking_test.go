package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBookingService/pkg/types"
)

func TestBooking_OverlapsRange(t *testing.T) {
	booking := &Booking{StartTime: "10:00", EndTime: "11:00"}

	tests := []struct {
		name  string
		start types.TimeString
		end   types.TimeString
		want  bool
	}{
		{name: "identical range", start: "10:00", end: "11:00", want: true},
		{name: "partial overlap from the right", start: "10:30", end: "11:30", want: true},
		{name: "partial overlap from the left", start: "09:30", end: "10:30", want: true},
		{name: "contained inside", start: "10:15", end: "10:45", want: true},
		{name: "contains the booking", start: "09:00", end: "12:00", want: true},
		{name: "touching at booking end", start: "11:00", end: "12:00", want: false},
		{name: "touching at booking start", start: "09:00", end: "10:00", want: false},
		{name: "fully before", start: "08:00", end: "09:00", want: false},
		{name: "fully after", start: "12:00", end: "13:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.OverlapsRange(tt.start, tt.end))
		})
	}
}

func TestBooking_Recalculate(t *testing.T) {
	tests := []struct {
		name         string
		start, end   types.TimeString
		pricePerHour float64
		wantDuration int
		wantTotal    float64
	}{
		{name: "whole hour", start: "10:00", end: "11:00", pricePerHour: 1000, wantDuration: 60, wantTotal: 1000},
		{name: "hour and a half", start: "10:00", end: "11:30", pricePerHour: 1000, wantDuration: 90, wantTotal: 1500},
		{name: "rounding to cents", start: "10:00", end: "10:50", pricePerHour: 100, wantDuration: 50, wantTotal: 83.33},
		{name: "until day boundary", start: "23:00", end: "24:00", pricePerHour: 500, wantDuration: 60, wantTotal: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{StartTime: tt.start, EndTime: tt.end, PricePerHour: tt.pricePerHour}
			require.NoError(t, b.Recalculate())
			assert.Equal(t, tt.wantDuration, b.DurationMinutes)
			assert.Equal(t, tt.wantTotal, b.TotalAmount)
		})
	}

	t.Run("invalid time", func(t *testing.T) {
		b := &Booking{StartTime: "bad", EndTime: "11:00"}
		assert.Error(t, b.Recalculate())
	})
}

func TestBooking_IsActive(t *testing.T) {
	// Слот освобождает только отмена, завершенные и неявки остаются в истории дня
	for _, status := range []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow} {
		b := &Booking{Status: status}
		assert.True(t, b.IsActive(), "status %s", status)
	}
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
}

func TestBooking_StartEndDateTime(t *testing.T) {
	b := &Booking{
		BookingDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "11:30",
	}

	start, err := b.StartDateTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC), start)

	end, err := b.EndDateTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 10, 11, 30, 0, 0, time.UTC), end)
}

func TestBooking_Guards(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Booking{Status: StatusCancelled}).CanBeCancelled())

	assert.True(t, (&Booking{Status: StatusPending}).CanBeUpdated())
	assert.False(t, (&Booking{Status: StatusNoShow}).CanBeUpdated())

	assert.True(t, (&Booking{Status: StatusConfirmed}).CanBeDeleted())
	assert.False(t, (&Booking{Status: StatusCompleted}).CanBeDeleted())
}
