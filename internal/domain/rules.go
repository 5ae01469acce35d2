package domain

import "time"

// BookingRules represents the booking policy for a facility
// Supports hierarchical configuration:
// 1. Facility-specific (facility_id set)
// 2. Global defaults row (facility_id NULL)
// 3. Compiled defaults (no rows found)
type BookingRules struct {
	ID         int64
	FacilityID *int64 // NULL = глобальные правила для всех объектов

	SlotGranularityMinutes int

	// Окно бронирования
	MinNoticeMinutes int // Минимум минут до начала
	MaxAdvanceDays   int // 0 = без ограничения

	// Границы длительности
	MinDurationMinutes int
	MaxDurationMinutes int

	// Квоты на пользователя (0 = без ограничения)
	MaxBookingsPerDay  int
	MaxBookingsPerWeek int

	// Отмена разрешена не позже чем за N часов до начала (0 = без ограничения)
	CancellationCutoffHours int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGlobal returns true if this is the global rules row
func (r *BookingRules) IsGlobal() bool {
	return r.FacilityID == nil
}

// HasAdvanceLimit returns true if there's a limit on how far in advance bookings can be made
func (r *BookingRules) HasAdvanceLimit() bool {
	return r.MaxAdvanceDays > 0
}

// HasDailyQuota returns true if a per-customer daily quota applies
func (r *BookingRules) HasDailyQuota() bool {
	return r.MaxBookingsPerDay > 0
}

// HasWeeklyQuota returns true if a per-customer weekly quota applies
func (r *BookingRules) HasWeeklyQuota() bool {
	return r.MaxBookingsPerWeek > 0
}

// HasCancellationCutoff returns true if cancellations are time-restricted
func (r *BookingRules) HasCancellationCutoff() bool {
	return r.CancellationCutoffHours > 0
}

// NoticeSatisfied проверяет минимальный интервал между "сейчас" и началом брони
func (r *BookingRules) NoticeSatisfied(now, start time.Time) bool {
	if r.MinNoticeMinutes <= 0 {
		return !start.Before(now)
	}
	return !start.Before(now.Add(time.Duration(r.MinNoticeMinutes) * time.Minute))
}

// AdvanceSatisfied проверяет, что дата брони не дальше горизонта планирования
func (r *BookingRules) AdvanceSatisfied(now, bookingDate time.Time) bool {
	if !r.HasAdvanceLimit() {
		return true
	}
	limit := now.AddDate(0, 0, r.MaxAdvanceDays)
	return !bookingDate.After(limit)
}

// DurationSatisfied проверяет границы длительности в минутах
func (r *BookingRules) DurationSatisfied(durationMinutes int) (tooShort, tooLong bool) {
	return durationMinutes < r.MinDurationMinutes, durationMinutes > r.MaxDurationMinutes
}

// CancellationAllowed проверяет, что до начала брони осталось не меньше порога отмены
func (r *BookingRules) CancellationAllowed(now, start time.Time) bool {
	if !r.HasCancellationCutoff() {
		return true
	}
	cutoff := start.Add(-time.Duration(r.CancellationCutoffHours) * time.Hour)
	return now.Before(cutoff)
}

// DefaultBookingRules возвращает правила по умолчанию
// Используются, когда в БД нет ни правил объекта, ни глобальной строки
func DefaultBookingRules() *BookingRules {
	return &BookingRules{
		SlotGranularityMinutes:  DefaultSlotGranularityMinutes,
		MinNoticeMinutes:        DefaultMinNoticeMinutes,
		MaxAdvanceDays:          DefaultMaxAdvanceDays,
		MinDurationMinutes:      DefaultMinDurationMinutes,
		MaxDurationMinutes:      DefaultMaxDurationMinutes,
		MaxBookingsPerDay:       DefaultMaxBookingsPerDay,
		MaxBookingsPerWeek:      DefaultMaxBookingsPerWeek,
		CancellationCutoffHours: DefaultCancellationCutoffHours,
	}
}
