package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandOccurrences_Daily(t *testing.T) {
	got, err := ExpandOccurrences(day(2026, 3, 1), RecurrenceDaily, day(2026, 3, 4))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		day(2026, 3, 2),
		day(2026, 3, 3),
		day(2026, 3, 4),
	}, got)
}

func TestExpandOccurrences_Weekly(t *testing.T) {
	got, err := ExpandOccurrences(day(2026, 3, 2), RecurrenceWeekly, day(2026, 3, 23))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		day(2026, 3, 9),
		day(2026, 3, 16),
		day(2026, 3, 23),
	}, got)
}

func TestExpandOccurrences_MonthlySkipsMissingDay(t *testing.T) {
	// 31-е число: февраль и апрель пропускаются, а не сдвигаются
	got, err := ExpandOccurrences(day(2026, 1, 31), RecurrenceMonthly, day(2026, 5, 31))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		day(2026, 3, 31),
		day(2026, 5, 31),
	}, got)
}

func TestExpandOccurrences_BaseDateExcluded(t *testing.T) {
	got, err := ExpandOccurrences(day(2026, 3, 1), RecurrenceDaily, day(2026, 3, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpandOccurrences_UntilInclusive(t *testing.T) {
	got, err := ExpandOccurrences(day(2026, 3, 1), RecurrenceWeekly, day(2026, 3, 8))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(2026, 3, 8), got[0])
}

func TestExpandOccurrences_Errors(t *testing.T) {
	_, err := ExpandOccurrences(day(2026, 3, 10), RecurrenceDaily, day(2026, 3, 1))
	assert.Error(t, err)

	_, err = ExpandOccurrences(day(2026, 3, 1), RecurrencePattern("yearly"), day(2026, 3, 10))
	assert.Error(t, err)
}

func TestExpandOccurrences_CappedAtLimit(t *testing.T) {
	got, err := ExpandOccurrences(day(2026, 1, 1), RecurrenceDaily, day(2030, 1, 1))
	require.NoError(t, err)
	assert.Len(t, got, MaxRecurrenceInstances)
}

func TestRecurrencePattern_IsValid(t *testing.T) {
	assert.True(t, RecurrenceDaily.IsValid())
	assert.True(t, RecurrenceWeekly.IsValid())
	assert.True(t, RecurrenceMonthly.IsValid())
	assert.False(t, RecurrencePattern("yearly").IsValid())
	assert.False(t, RecurrencePattern("").IsValid())
}
